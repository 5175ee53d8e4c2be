package lifecycle

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"filippo.io/age"
	"github.com/klauspost/compress/zstd"
	"github.com/ppiankov/casefile/internal/model"
)

// Format is the encoding of an export
type Format string

const (
	FormatJSON Format = "json"
	FormatZstd Format = "zstd"
)

// ParseFormat validates a format name
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatZstd:
		return FormatZstd, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// ExportOptions controls Export
type ExportOptions struct {
	Format     Format
	Recipients []string // age X25519 recipients; encrypts when non-empty
	Actor      string
}

// Export encodes payload, compressing and encrypting as requested, and
// records the export in the audit log.
func (m *Manager) Export(ctx context.Context, payload []byte, opts ExportOptions) ([]byte, error) {
	if len(payload) == 0 {
		return nil, ErrNothingToExport
	}
	if opts.Format == "" {
		opts.Format = FormatJSON
	}
	out, err := Encode(payload, opts.Format, opts.Recipients)
	if err != nil {
		return nil, err
	}

	err = m.record(ctx, model.AuditDataExported, opts.Actor, fmt.Sprintf("data exported as %s", opts.Format), map[string]any{
		"format":    string(opts.Format),
		"encrypted": len(opts.Recipients) > 0,
		"bytes":     len(out),
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Encode applies the format and optional age encryption to payload
func Encode(payload []byte, format Format, recipients []string) ([]byte, error) {
	data := payload
	switch format {
	case "", FormatJSON:
	case FormatZstd:
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		if err != nil {
			return nil, fmt.Errorf("creating zstd encoder: %w", err)
		}
		data = enc.EncodeAll(payload, nil)
		_ = enc.Close()
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}

	if len(recipients) == 0 {
		return data, nil
	}

	parsed := make([]age.Recipient, 0, len(recipients))
	for _, key := range recipients {
		r, err := age.ParseX25519Recipient(key)
		if err != nil {
			return nil, fmt.Errorf("parsing recipient key %q: %w", key, err)
		}
		parsed = append(parsed, r)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, parsed...)
	if err != nil {
		return nil, fmt.Errorf("creating age encryptor: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("writing export to age encryptor: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("finalizing age encryption: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode. Identities are required for encrypted exports.
func Decode(data []byte, format Format, identities ...age.Identity) ([]byte, error) {
	if len(identities) > 0 {
		r, err := age.Decrypt(bytes.NewReader(data), identities...)
		if err != nil {
			return nil, fmt.Errorf("decrypting export: %w", err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("reading decrypted export: %w", err)
		}
	}

	switch format {
	case "", FormatJSON:
		return data, nil
	case FormatZstd:
		dec, err := zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("creating zstd decoder: %w", err)
		}
		defer dec.Close()
		out, err := dec.DecodeAll(data, nil)
		if err != nil {
			return nil, fmt.Errorf("decompressing export: %w", err)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
