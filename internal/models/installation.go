// internal/models/installation.go
package models

import (
	"fmt"
	"time"
)

// InstallationType is the closed set of bookable facility categories.
// Each type maps to a lowercase token used for persistence and JSON.
type InstallationType int

const (
	InstallationPadelOld InstallationType = iota + 1
	InstallationPadelNew
	InstallationTennis
	InstallationMultisport
	InstallationFutsal
	InstallationFootballField
)

var installationTypeTokens = map[InstallationType]string{
	InstallationPadelOld:      "padel_old",
	InstallationPadelNew:      "padel_new",
	InstallationTennis:        "tennis",
	InstallationMultisport:    "multisport",
	InstallationFutsal:        "futsal",
	InstallationFootballField: "football_field",
}

var installationTypesByToken = func() map[string]InstallationType {
	byToken := make(map[string]InstallationType, len(installationTypeTokens))
	for installationType, token := range installationTypeTokens {
		byToken[token] = installationType
	}
	return byToken
}()

// Token returns the persistence token for the type, or "" for unknown values.
func (t InstallationType) Token() string {
	return installationTypeTokens[t]
}

func (t InstallationType) String() string {
	if token, ok := installationTypeTokens[t]; ok {
		return token
	}
	return fmt.Sprintf("InstallationType(%d)", int(t))
}

// ParseInstallationType maps a stored or submitted token back to its type.
// Unknown tokens are rejected so corrupt rows surface instead of round-tripping.
func ParseInstallationType(token string) (InstallationType, error) {
	installationType, ok := installationTypesByToken[token]
	if !ok {
		return 0, fmt.Errorf("unknown installation type %q", token)
	}
	return installationType, nil
}

// Installation is a bookable municipal resource. The scheduling engine
// references installations but never mutates them.
type Installation struct {
	ID        int64            `json:"id"`
	Name      string           `json:"name"`
	Type      InstallationType `json:"-"`
	Number    *int64           `json:"number,omitempty"`
	Active    bool             `json:"active"`
	CreatedAt time.Time        `json:"createdAt"`
}
