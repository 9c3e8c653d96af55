package webdriver

import "strings"

// w3cCapabilityNames pass the W3C filter unchanged. So does any key
// containing a colon (vendor extensions such as "goog:chromeOptions").
var w3cCapabilityNames = map[string]bool{
	"acceptInsecureCerts":       true,
	"browserName":               true,
	"browserVersion":            true,
	"platformName":              true,
	"pageLoadStrategy":          true,
	"proxy":                     true,
	"setWindowRect":             true,
	"timeouts":                  true,
	"unhandledPromptBehavior":   true,
	"strictFileInteractability": true,
}

// legacyCapabilityNames maps legacy-only keys onto their W3C names.
var legacyCapabilityNames = map[string]string{
	"acceptSslCerts": "acceptInsecureCerts",
	"version":        "browserVersion",
	"platform":       "platformName",
}

// W3CCapabilities builds the {firstMatch, alwaysMatch} object sent next to
// the legacy desired capabilities. Renamed legacy keys never override a W3C
// key that is already present.
func W3CCapabilities(caps map[string]interface{}) map[string]interface{} {
	if caps == nil {
		caps = map[string]interface{}{}
	}
	caps = deepCopy(caps).(map[string]interface{})

	if proxy, ok := caps["proxy"].(map[string]interface{}); ok {
		if pt, ok := proxy["proxyType"].(string); ok && pt != "" {
			proxy["proxyType"] = strings.ToLower(pt)
		}
	}

	alwaysMatch := map[string]interface{}{}
	for k, v := range caps {
		if w3cCapabilityNames[k] || strings.Contains(k, ":") {
			alwaysMatch[k] = v
		}
	}
	for k, v := range caps {
		target, ok := legacyCapabilityNames[k]
		if !ok || !truthy(v) {
			continue
		}
		if _, taken := alwaysMatch[target]; taken {
			continue
		}
		if s, isString := v.(string); isString && k == "platform" {
			v = strings.ToLower(s)
		}
		alwaysMatch[target] = v
	}

	if profile := caps["firefox_profile"]; truthy(profile) {
		mozOpts, _ := alwaysMatch["moz:firefoxOptions"].(map[string]interface{})
		if _, ok := mozOpts["profile"]; !ok {
			opts := map[string]interface{}{}
			for k, v := range mozOpts {
				opts[k] = v
			}
			opts["profile"] = profile
			alwaysMatch["moz:firefoxOptions"] = opts
		}
	}

	return map[string]interface{}{
		"firstMatch":  []interface{}{map[string]interface{}{}},
		"alwaysMatch": alwaysMatch,
	}
}

// desiredCapabilities merges the options builder, the explicit map and the
// Firefox profile, later sources winning.
func (s *Session) desiredCapabilities() map[string]interface{} {
	caps := map[string]interface{}{}
	if s.opts.Options != nil {
		for k, v := range s.opts.Options.ToCapabilities() {
			caps[k] = v
		}
	}
	for k, v := range s.opts.Capabilities {
		caps[k] = v
	}
	if s.opts.Profile != "" {
		if mozOpts, ok := caps["moz:firefoxOptions"].(map[string]interface{}); ok {
			opts := make(map[string]interface{}, len(mozOpts)+1)
			for k, v := range mozOpts {
				opts[k] = v
			}
			opts["profile"] = s.opts.Profile
			caps["moz:firefoxOptions"] = opts
		} else {
			caps["firefox_profile"] = s.opts.Profile
		}
	}
	return caps
}

func deepCopy(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[k] = deepCopy(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(t))
		for i, item := range t {
			out[i] = deepCopy(item)
		}
		return out
	default:
		return v
	}
}
