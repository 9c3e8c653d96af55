package webdriver

import (
	"fmt"
	"strings"
)

// By is an element locator strategy.
type By string

const (
	ByID              By = "id"
	ByXPath           By = "xpath"
	ByLinkText        By = "link text"
	ByPartialLinkText By = "partial link text"
	ByName            By = "name"
	ByTagName         By = "tag name"
	ByClassName       By = "class name"
	ByCSSSelector     By = "css selector"
	// ByIDOrName matches either attribute; used to resolve frames by name.
	ByIDOrName By = "id or name"
)

// locator returns the strategy and value to send. W3C only knows css, xpath
// and the link text strategies, so the rest are rewritten as CSS selectors.
func (b By) locator(value string, w3c bool) (By, string) {
	if !w3c {
		if b == ByIDOrName {
			return ByID, value
		}
		return b, value
	}
	switch b {
	case ByID:
		return ByCSSSelector, attrSelector("id", value)
	case ByName:
		return ByCSSSelector, attrSelector("name", value)
	case ByTagName:
		return ByCSSSelector, value
	case ByClassName:
		return ByCSSSelector, "." + value
	case ByIDOrName:
		return ByCSSSelector, attrSelector("id", value) + "," + attrSelector("name", value)
	}
	return b, value
}

func (b By) params(value string, w3c bool) map[string]interface{} {
	using, v := b.locator(value, w3c)
	return map[string]interface{}{"using": string(using), "value": v}
}

var cssQuoter = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func attrSelector(attr, value string) string {
	return fmt.Sprintf(`[%s="%s"]`, attr, cssQuoter.Replace(value))
}
