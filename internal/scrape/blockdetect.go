package scrape

import (
	"net/http"
	"strings"
)

// BlockType describes the kind of anti-bot wall a response hit.
type BlockType string

// Block types reported by DetectBlock.
const (
	BlockNone       BlockType = ""
	BlockCloudflare BlockType = "cloudflare"
	BlockCaptcha    BlockType = "captcha"
	BlockJSShell    BlockType = "js_shell"
)

// DetectBlock reports whether resp is a challenge page rather than the
// requested content.
func DetectBlock(resp *http.Response, body []byte) (bool, BlockType) {
	if resp == nil {
		return false, BlockNone
	}

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusServiceUnavailable {
		if resp.Header.Get("cf-ray") != "" || strings.EqualFold(resp.Header.Get("server"), "cloudflare") {
			return true, BlockCloudflare
		}
	}

	lower := strings.ToLower(string(body))

	if strings.Contains(lower, "checking your browser") ||
		strings.Contains(lower, "cf-browser-verification") ||
		(strings.Contains(lower, "cloudflare") && strings.Contains(lower, "challenge")) {
		return true, BlockCloudflare
	}

	// Contact forms often embed a captcha widget, so only short pages count.
	if len(body) < 5000 && (strings.Contains(lower, "captcha") || strings.Contains(lower, "datadome")) {
		return true, BlockCaptcha
	}

	if len(body) < 2000 {
		if strings.Contains(lower, "<noscript") && strings.Contains(lower, "javascript") {
			return true, BlockJSShell
		}
		if strings.Contains(lower, `http-equiv="refresh"`) {
			return true, BlockJSShell
		}
	}

	return false, BlockNone
}
