// Package command maps WebDriver commands to HTTP endpoints.
package command

// Command identifies one WebDriver operation. The value is only a key into a
// Registry; it carries no behaviour of its own.
type Command string

// Session and server
const (
	Status         Command = "status"
	NewSession     Command = "newSession"
	GetAllSessions Command = "getAllSessions"
	DeleteSession  Command = "deleteSession"
	Quit           Command = "quit"
)

// Windows and navigation
const (
	NewWindow                 Command = "newWindow"
	Close                     Command = "close"
	Get                       Command = "get"
	GoBack                    Command = "goBack"
	GoForward                 Command = "goForward"
	Refresh                   Command = "refresh"
	GetCurrentURL             Command = "getCurrentUrl"
	GetPageSource             Command = "getPageSource"
	GetTitle                  Command = "getTitle"
	GetCurrentWindowHandle    Command = "getCurrentWindowHandle"
	W3CGetCurrentWindowHandle Command = "w3cGetCurrentWindowHandle"
	GetWindowHandles          Command = "getWindowHandles"
	W3CGetWindowHandles       Command = "w3cGetWindowHandles"
	GetWindowSize             Command = "getWindowSize"
	SetWindowSize             Command = "setWindowSize"
	GetWindowPosition         Command = "getWindowPosition"
	SetWindowPosition         Command = "setWindowPosition"
	GetWindowRect             Command = "getWindowRect"
	SetWindowRect             Command = "setWindowRect"
	MaximizeWindow            Command = "windowMaximize"
	W3CMaximizeWindow         Command = "w3cMaximizeWindow"
	FullscreenWindow          Command = "fullscreenWindow"
	MinimizeWindow            Command = "minimizeWindow"
	SwitchToWindow            Command = "switchToWindow"
	SwitchToFrame             Command = "switchToFrame"
	SwitchToParentFrame       Command = "switchToParentFrame"
)

// Cookies
const (
	AddCookie        Command = "addCookie"
	GetCookie        Command = "getCookie"
	GetAllCookies    Command = "getCookies"
	DeleteCookie     Command = "deleteCookie"
	DeleteAllCookies Command = "deleteAllCookies"
)

// Elements
const (
	FindElement                            Command = "findElement"
	FindElements                           Command = "findElements"
	FindChildElement                       Command = "findChildElement"
	FindChildElements                      Command = "findChildElements"
	GetActiveElement                       Command = "getActiveElement"
	W3CGetActiveElement                    Command = "w3cGetActiveElement"
	ClearElement                           Command = "clearElement"
	ClickElement                           Command = "clickElement"
	SendKeysToElement                      Command = "sendKeysToElement"
	SendKeysToActiveElement                Command = "sendKeysToActiveElement"
	SubmitElement                          Command = "submitElement"
	UploadFile                             Command = "uploadFile"
	GetElementText                         Command = "getElementText"
	GetElementValue                        Command = "getElementValue"
	GetElementTagName                      Command = "getElementTagName"
	SetElementSelected                     Command = "setElementSelected"
	IsElementSelected                      Command = "isElementSelected"
	IsElementEnabled                       Command = "isElementEnabled"
	IsElementDisplayed                     Command = "isElementDisplayed"
	GetElementLocation                     Command = "getElementLocation"
	GetElementLocationOnceScrolledIntoView Command = "getElementLocationOnceScrolledIntoView"
	GetElementSize                         Command = "getElementSize"
	GetElementRect                         Command = "getElementRect"
	GetElementAttribute                    Command = "getElementAttribute"
	GetElementProperty                     Command = "getElementProperty"
	GetElementValueOfCSSProperty           Command = "getElementValueOfCssProperty"
	ElementScreenshot                      Command = "elementScreenshot"
	Screenshot                             Command = "screenshot"
)

// Scripts, timeouts and logs
const (
	ExecuteScript         Command = "executeScript"
	ExecuteAsyncScript    Command = "executeAsyncScript"
	W3CExecuteScript      Command = "w3cExecuteScript"
	W3CExecuteScriptAsync Command = "w3cExecuteScriptAsync"
	ImplicitWait          Command = "implicitlyWait"
	SetScriptTimeout      Command = "setScriptTimeout"
	SetTimeouts           Command = "setTimeouts"
	GetTimeouts           Command = "getTimeouts"
	GetLog                Command = "getLog"
	GetAvailableLogTypes  Command = "getAvailableLogTypes"
)

// Alerts
const (
	DismissAlert        Command = "dismissAlert"
	W3CDismissAlert     Command = "w3cDismissAlert"
	AcceptAlert         Command = "acceptAlert"
	W3CAcceptAlert      Command = "w3cAcceptAlert"
	SetAlertValue       Command = "setAlertValue"
	W3CSetAlertValue    Command = "w3cSetAlertValue"
	GetAlertText        Command = "getAlertText"
	W3CGetAlertText     Command = "w3cGetAlertText"
	SetAlertCredentials Command = "setAlertCredentials"
)

// Input actions. W3CActions is the endpoint an encoded action set is sent to.
const (
	W3CActions      Command = "actions"
	W3CClearActions Command = "clearActionState"
	Click           Command = "mouseClick"
	DoubleClick     Command = "mouseDoubleClick"
	MouseDown       Command = "mouseButtonDown"
	MouseUp         Command = "mouseButtonUp"
	MoveTo          Command = "mouseMoveTo"
)

// Touch and mobile
const (
	SetScreenOrientation Command = "setScreenOrientation"
	GetScreenOrientation Command = "getScreenOrientation"
	SingleTap            Command = "touchSingleTap"
	TouchDown            Command = "touchDown"
	TouchUp              Command = "touchUp"
	TouchMove            Command = "touchMove"
	TouchScroll          Command = "touchScroll"
	DoubleTap            Command = "touchDoubleTap"
	LongPress            Command = "touchLongPress"
	Flick                Command = "touchFlick"
	GetNetworkConnection Command = "getNetworkConnection"
	SetNetworkConnection Command = "setNetworkConnection"
	CurrentContextHandle Command = "getCurrentContextHandle"
	ContextHandles       Command = "getContextHandles"
	SwitchToContext      Command = "switchToContext"
)

// HTML5
const (
	ExecuteSQL               Command = "executeSql"
	GetLocation              Command = "getLocation"
	SetLocation              Command = "setLocation"
	GetAppCache              Command = "getAppCache"
	GetAppCacheStatus        Command = "getAppCacheStatus"
	ClearAppCache            Command = "clearAppCache"
	GetLocalStorageItem      Command = "getLocalStorageItem"
	RemoveLocalStorageItem   Command = "removeLocalStorageItem"
	GetLocalStorageKeys      Command = "getLocalStorageKeys"
	SetLocalStorageItem      Command = "setLocalStorageItem"
	ClearLocalStorage        Command = "clearLocalStorage"
	GetLocalStorageSize      Command = "getLocalStorageSize"
	GetSessionStorageItem    Command = "getSessionStorageItem"
	RemoveSessionStorageItem Command = "removeSessionStorageItem"
	GetSessionStorageKeys    Command = "getSessionStorageKeys"
	SetSessionStorageItem    Command = "setSessionStorageItem"
	ClearSessionStorage      Command = "clearSessionStorage"
	GetSessionStorageSize    Command = "getSessionStorageSize"
)

// Chromium extensions
const (
	LaunchApp            Command = "launchApp"
	SetNetworkConditions Command = "setNetworkConditions"
	GetNetworkConditions Command = "getNetworkConditions"
	ExecuteCDPCommand    Command = "executeCdpCommand"
	GetSinks             Command = "getSinks"
	GetIssueMessage      Command = "getIssueMessage"
	SetSinkToUse         Command = "setSinkToUse"
	StartTabMirroring    Command = "startTabMirroring"
	StopCasting          Command = "stopCasting"
)

// Firefox extensions
const (
	GetContext                              Command = "getContext"
	SetContext                              Command = "setContext"
	ElementGetAnonymousChildren             Command = "elementGetAnonymousChildren"
	ElementFindAnonymousElementsByAttribute Command = "elementFindAnonymousElementsByAttribute"
	InstallAddon                            Command = "installAddon"
	UninstallAddon                          Command = "uninstallAddon"
	FullPageScreenshot                      Command = "fullPageScreenshot"
)

// Safari extensions
const (
	GetPermissions Command = "getPermissions"
	SetPermissions Command = "setPermissions"
	AttachDebugger Command = "attachDebugger"
)
