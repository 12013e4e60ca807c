package fingerprint

import (
	"encoding/base64"
	"errors"
	"strings"
)

// Fingerprint identifies a submission source across events. IP alone is too
// coarse behind CGNAT; IP plus user agent separates the tools sharing an
// exit address.
type Fingerprint struct {
	IP        string
	UserAgent string
}

func New(ip, userAgent string) Fingerprint {
	return Fingerprint{
		IP:        strings.TrimSpace(ip),
		UserAgent: strings.TrimSpace(userAgent),
	}
}

func NewFromID(id string) (*Fingerprint, error) {
	decoded, err := base64.StdEncoding.DecodeString(id)
	if err != nil {
		return nil, err
	}
	parts := strings.SplitN(string(decoded), "|", 2)
	if len(parts) != 2 {
		return nil, errors.New("invalid fingerprint ID format")
	}
	return &Fingerprint{
		IP:        parts[0],
		UserAgent: parts[1],
	}, nil
}

func (f Fingerprint) ID() string {
	raw := f.IP + "|" + f.UserAgent
	return base64.StdEncoding.EncodeToString([]byte(raw))
}
