package command

import "strings"

// Family is the closed set of browser families with their own endpoint
// extensions.
type Family int

const (
	FamilyBase Family = iota
	FamilyChromium
	FamilyFirefox
	FamilySafari
)

func (f Family) String() string {
	switch f {
	case FamilyChromium:
		return "chromium"
	case FamilyFirefox:
		return "firefox"
	case FamilySafari:
		return "safari"
	default:
		return "base"
	}
}

// Vendor prefixes used by Chromium-based drivers for extension endpoints.
const (
	VendorGoogle    = "goog"
	VendorMicrosoft = "ms"
)

// NewChromiumRegistry layers the Chromium launch-app, network-conditions,
// CDP and cast endpoints over the base set. vendorPrefix is "goog" for
// chromedriver and "ms" for msedgedriver.
func NewChromiumRegistry(vendorPrefix string) *Registry {
	r := NewRegistry()
	r.family = FamilyChromium
	vendor := sessionPath + "/" + vendorPrefix
	r.AddCommands(map[Command]Spec{
		LaunchApp:            post(sessionPath + "/chromium/launch_app"),
		SetNetworkConditions: post(sessionPath + "/chromium/network_conditions"),
		GetNetworkConditions: get(sessionPath + "/chromium/network_conditions"),
		ExecuteCDPCommand:    post(vendor + "/cdp/execute"),
		GetSinks:             get(vendor + "/cast/get_sinks"),
		GetIssueMessage:      get(vendor + "/cast/get_issue_message"),
		SetSinkToUse:         post(vendor + "/cast/set_sink_to_use"),
		StartTabMirroring:    post(vendor + "/cast/start_tab_mirroring"),
		StopCasting:          post(vendor + "/cast/stop_casting"),
	})
	return r
}

// NewFirefoxRegistry layers the geckodriver extension endpoints over the
// base set.
func NewFirefoxRegistry() *Registry {
	r := NewRegistry()
	r.family = FamilyFirefox
	r.AddCommands(map[Command]Spec{
		GetContext:                              get(sessionPath + "/moz/context"),
		SetContext:                              post(sessionPath + "/moz/context"),
		ElementGetAnonymousChildren:             post(sessionPath + "/moz/xbl/{id}/anonymous_children"),
		ElementFindAnonymousElementsByAttribute: post(sessionPath + "/moz/xbl/{id}/anonymous_by_attribute"),
		InstallAddon:                            post(sessionPath + "/moz/addon/install"),
		UninstallAddon:                          post(sessionPath + "/moz/addon/uninstall"),
		FullPageScreenshot:                      get(sessionPath + "/moz/screenshot/full"),
	})
	return r
}

// NewSafariRegistry layers the safaridriver extension endpoints over the base
// set.
func NewSafariRegistry() *Registry {
	r := NewRegistry()
	r.family = FamilySafari
	r.AddCommands(map[Command]Spec{
		GetPermissions: get(sessionPath + "/apple/permissions"),
		SetPermissions: post(sessionPath + "/apple/permissions"),
		AttachDebugger: post(sessionPath + "/apple/attach_debugger"),
	})
	return r
}

// ForBrowser builds the registry matching a capabilities browserName.
// Unknown or empty names get the base registry.
func ForBrowser(browserName string) *Registry {
	switch strings.ToLower(strings.TrimSpace(browserName)) {
	case "chrome", "chromium", "googlechrome":
		return NewChromiumRegistry(VendorGoogle)
	case "msedge", "microsoftedge", "edge":
		return NewChromiumRegistry(VendorMicrosoft)
	case "firefox":
		return NewFirefoxRegistry()
	case "safari", "safari technology preview":
		return NewSafariRegistry()
	default:
		return NewRegistry()
	}
}

func baseCommands() map[Command]Spec {
	return map[Command]Spec{
		Status:         get("/status"),
		NewSession:     post("/session"),
		GetAllSessions: get("/sessions"),

		Quit:                      del(sessionPath),
		GetCurrentWindowHandle:    get(sessionPath + "/window_handle"),
		W3CGetCurrentWindowHandle: get(sessionPath + "/window"),
		GetWindowHandles:          get(sessionPath + "/window_handles"),
		W3CGetWindowHandles:       get(sessionPath + "/window/handles"),
		Get:                       post(sessionPath + "/url"),
		GoForward:                 post(sessionPath + "/forward"),
		GoBack:                    post(sessionPath + "/back"),
		Refresh:                   post(sessionPath + "/refresh"),
		ExecuteScript:             post(sessionPath + "/execute"),
		W3CExecuteScript:          post(sessionPath + "/execute/sync"),
		W3CExecuteScriptAsync:     post(sessionPath + "/execute/async"),
		GetCurrentURL:             get(sessionPath + "/url"),
		GetTitle:                  get(sessionPath + "/title"),
		GetPageSource:             get(sessionPath + "/source"),
		Screenshot:                get(sessionPath + "/screenshot"),
		FindElement:               post(sessionPath + "/element"),
		FindElements:              post(sessionPath + "/elements"),
		W3CGetActiveElement:       get(sessionPath + "/element/active"),
		GetActiveElement:          post(sessionPath + "/element/active"),
		GetAllCookies:             get(sessionPath + "/cookie"),
		AddCookie:                 post(sessionPath + "/cookie"),
		GetCookie:                 get(sessionPath + "/cookie/{name}"),
		DeleteAllCookies:          del(sessionPath + "/cookie"),
		DeleteCookie:              del(sessionPath + "/cookie/{name}"),
		SwitchToFrame:             post(sessionPath + "/frame"),
		SwitchToParentFrame:       post(sessionPath + "/frame/parent"),
		SwitchToWindow:            post(sessionPath + "/window"),
		NewWindow:                 post(sessionPath + "/window/new"),
		Close:                     del(sessionPath + "/window"),

		ElementScreenshot:                      get(elementPath + "/screenshot"),
		FindChildElement:                       post(elementPath + "/element"),
		FindChildElements:                      post(elementPath + "/elements"),
		ClickElement:                           post(elementPath + "/click"),
		ClearElement:                           post(elementPath + "/clear"),
		SubmitElement:                          post(elementPath + "/submit"),
		GetElementText:                         get(elementPath + "/text"),
		SendKeysToElement:                      post(elementPath + "/value"),
		SendKeysToActiveElement:                post(sessionPath + "/keys"),
		UploadFile:                             post(sessionPath + "/file"),
		GetElementValue:                        get(elementPath + "/value"),
		GetElementTagName:                      get(elementPath + "/name"),
		IsElementSelected:                      get(elementPath + "/selected"),
		SetElementSelected:                     post(elementPath + "/selected"),
		IsElementEnabled:                       get(elementPath + "/enabled"),
		IsElementDisplayed:                     get(elementPath + "/displayed"),
		GetElementLocation:                     get(elementPath + "/location"),
		GetElementLocationOnceScrolledIntoView: get(elementPath + "/location_in_view"),
		GetElementSize:                         get(elementPath + "/size"),
		GetElementRect:                         get(elementPath + "/rect"),
		GetElementAttribute:                    get(elementPath + "/attribute/{name}"),
		GetElementProperty:                     get(elementPath + "/property/{name}"),
		GetElementValueOfCSSProperty:           get(elementPath + "/css/{propertyName}"),

		ImplicitWait:       post(sessionPath + "/timeouts/implicit_wait"),
		ExecuteAsyncScript: post(sessionPath + "/execute_async"),
		SetScriptTimeout:   post(sessionPath + "/timeouts/async_script"),
		SetTimeouts:        post(sessionPath + "/timeouts"),
		GetTimeouts:        get(sessionPath + "/timeouts"),

		DismissAlert:        post(sessionPath + "/dismiss_alert"),
		W3CDismissAlert:     post(sessionPath + "/alert/dismiss"),
		AcceptAlert:         post(sessionPath + "/accept_alert"),
		W3CAcceptAlert:      post(sessionPath + "/alert/accept"),
		SetAlertValue:       post(sessionPath + "/alert_text"),
		W3CSetAlertValue:    post(sessionPath + "/alert/text"),
		GetAlertText:        get(sessionPath + "/alert_text"),
		W3CGetAlertText:     get(sessionPath + "/alert/text"),
		SetAlertCredentials: post(sessionPath + "/alert/credentials"),

		Click:           post(sessionPath + "/click"),
		W3CActions:      post(sessionPath + "/actions"),
		W3CClearActions: del(sessionPath + "/actions"),
		DoubleClick:     post(sessionPath + "/doubleclick"),
		MouseDown:       post(sessionPath + "/buttondown"),
		MouseUp:         post(sessionPath + "/buttonup"),
		MoveTo:          post(sessionPath + "/moveto"),

		GetWindowSize:     get(windowPath + "/size"),
		SetWindowSize:     post(windowPath + "/size"),
		GetWindowPosition: get(windowPath + "/position"),
		SetWindowPosition: post(windowPath + "/position"),
		MaximizeWindow:    post(windowPath + "/maximize"),
		SetWindowRect:     post(sessionPath + "/window/rect"),
		GetWindowRect:     get(sessionPath + "/window/rect"),
		W3CMaximizeWindow: post(sessionPath + "/window/maximize"),

		SetScreenOrientation: post(sessionPath + "/orientation"),
		GetScreenOrientation: get(sessionPath + "/orientation"),

		SingleTap:   post(sessionPath + "/touch/click"),
		TouchDown:   post(sessionPath + "/touch/down"),
		TouchUp:     post(sessionPath + "/touch/up"),
		TouchMove:   post(sessionPath + "/touch/move"),
		TouchScroll: post(sessionPath + "/touch/scroll"),
		DoubleTap:   post(sessionPath + "/touch/doubleclick"),
		LongPress:   post(sessionPath + "/touch/longclick"),
		Flick:       post(sessionPath + "/touch/flick"),

		ExecuteSQL:               post(sessionPath + "/execute_sql"),
		GetLocation:              get(sessionPath + "/location"),
		SetLocation:              post(sessionPath + "/location"),
		GetAppCache:              get(sessionPath + "/application_cache"),
		GetAppCacheStatus:        get(sessionPath + "/application_cache/status"),
		ClearAppCache:            del(sessionPath + "/application_cache/clear"),
		GetNetworkConnection:     get(sessionPath + "/network_connection"),
		SetNetworkConnection:     post(sessionPath + "/network_connection"),
		GetLocalStorageItem:      get(sessionPath + "/local_storage/key/{key}"),
		RemoveLocalStorageItem:   del(sessionPath + "/local_storage/key/{key}"),
		GetLocalStorageKeys:      get(sessionPath + "/local_storage"),
		SetLocalStorageItem:      post(sessionPath + "/local_storage"),
		ClearLocalStorage:        del(sessionPath + "/local_storage"),
		GetLocalStorageSize:      get(sessionPath + "/local_storage/size"),
		GetSessionStorageItem:    get(sessionPath + "/session_storage/key/{key}"),
		RemoveSessionStorageItem: del(sessionPath + "/session_storage/key/{key}"),
		GetSessionStorageKeys:    get(sessionPath + "/session_storage"),
		SetSessionStorageItem:    post(sessionPath + "/session_storage"),
		ClearSessionStorage:      del(sessionPath + "/session_storage"),
		GetSessionStorageSize:    get(sessionPath + "/session_storage/size"),

		GetLog:               post(sessionPath + "/se/log"),
		GetAvailableLogTypes: get(sessionPath + "/se/log/types"),
		CurrentContextHandle: get(sessionPath + "/context"),
		ContextHandles:       get(sessionPath + "/contexts"),
		SwitchToContext:      post(sessionPath + "/context"),
		FullscreenWindow:     post(sessionPath + "/window/fullscreen"),
		MinimizeWindow:       post(sessionPath + "/window/minimize"),
	}
}
