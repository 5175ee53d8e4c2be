package fetch

import (
	"net/http"
	"net/url"
	"strings"
)

// NewProxyFunc returns the proxy selector for outbound requests. With no
// proxies configured it defers to HTTP_PROXY, HTTPS_PROXY and NO_PROXY.
func NewProxyFunc(httpProxy, httpsProxy, noProxy string) func(*http.Request) (*url.URL, error) {
	if httpProxy == "" && httpsProxy == "" {
		return http.ProxyFromEnvironment
	}

	bypass := splitNoProxy(noProxy)

	return func(req *http.Request) (*url.URL, error) {
		if bypassed(req.URL.Hostname(), bypass) {
			return nil, nil
		}
		if req.URL.Scheme == "https" && httpsProxy != "" {
			return url.Parse(httpsProxy)
		}
		if httpProxy != "" {
			return url.Parse(httpProxy)
		}
		return http.ProxyFromEnvironment(req)
	}
}

func splitNoProxy(noProxy string) []string {
	var out []string
	for _, h := range strings.Split(noProxy, ",") {
		if h = strings.TrimSpace(strings.ToLower(h)); h != "" {
			out = append(out, strings.TrimPrefix(h, "."))
		}
	}
	return out
}

func bypassed(host string, bypass []string) bool {
	host = strings.ToLower(host)
	for _, b := range bypass {
		if b == "*" || host == b || strings.HasSuffix(host, "."+b) {
			return true
		}
	}
	return false
}
