package mra

// TokenResponse represents the OAuth client-credentials grant response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
	Scope       string `json:"scope"`
}

// DevicesResponse represents one page of the device list endpoint.
type DevicesResponse struct {
	Count   int      `json:"count"`
	Devices []Device `json:"devices"`
}

// ThreatsResponse represents one page of the threat list endpoint.
type ThreatsResponse struct {
	Count   int      `json:"count"`
	Threats []Threat `json:"threats"`
}

// Device represents a device as returned by the API. The oid field doubles
// as the pagination cursor when present on the last item of a page.
type Device struct {
	GUID             string   `json:"guid"`
	OID              string   `json:"oid"`
	Email            string   `json:"email"`
	CheckinTime      string   `json:"checkin_time"`
	ProtectionStatus string   `json:"protection_status"`
	Platform         string   `json:"platform"`
	Software         Software `json:"software"`
	Hardware         Hardware `json:"hardware"`
}

// Software holds the nested software block of a device payload.
type Software struct {
	OSVersion                string `json:"os_version"`
	LatestOSVersion          string `json:"latest_os_version"`
	SecurityPatchLevel       string `json:"security_patch_level"`
	LatestSecurityPatchLevel string `json:"latest_security_patch_level"`
	SDKVersion               string `json:"sdk_version"`
}

// Hardware holds the nested hardware block of a device payload.
type Hardware struct {
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

// Threat represents a detected threat as returned by the API.
type Threat struct {
	OID            string `json:"oid"`
	DeviceGUID     string `json:"device_guid"`
	Classification string `json:"classification"`
	DetectedAt     string `json:"detected_at"`
	Status         string `json:"status"`
	Risk           string `json:"risk"`
}

func (d Device) pageCursor() string { return d.OID }
func (t Threat) pageCursor() string { return t.OID }
