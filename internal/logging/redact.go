// FinBoard - Widget Data Pipeline for JSON Dashboards
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/finboard

package logging

import (
	"net/url"
	"strings"
)

// sensitiveParams are query parameter names whose values never reach logs.
var sensitiveParams = map[string]bool{
	"apikey":            true,
	"api_key":           true,
	"api-key":           true,
	"key":               true,
	"token":             true,
	"access_token":      true,
	"secret":            true,
	"signature":         true,
	"x_cg_demo_api_key": true,
	"x_cg_pro_api_key":  true,
}

// MaskSecret keeps the first and last four characters of long secrets.
//
//	"abcd1234efgh5678" -> "abcd...5678"
func MaskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 12 {
		return "***"
	}
	return s[:4] + "..." + s[len(s)-4:]
}

// RedactURL masks credential-looking query values and any userinfo in raw.
// extra names additional parameters to mask, such as a widget's configured
// API key parameter. Unparseable input is returned fully masked.
func RedactURL(raw string, extra ...string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "***"
	}

	if u.User != nil {
		u.User = url.User("***")
	}

	if u.RawQuery == "" {
		return u.String()
	}

	q := u.Query()
	changed := false
	for name, values := range q {
		if !isSensitiveParam(name, extra) {
			continue
		}
		for i := range values {
			values[i] = MaskSecret(values[i])
		}
		changed = true
	}
	if changed {
		u.RawQuery = q.Encode()
	}
	return u.String()
}

func isSensitiveParam(name string, extra []string) bool {
	lower := strings.ToLower(name)
	if sensitiveParams[lower] {
		return true
	}
	for _, e := range extra {
		if e != "" && strings.EqualFold(e, name) {
			return true
		}
	}
	return false
}
