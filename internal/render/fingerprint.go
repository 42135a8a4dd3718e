package render

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/plugindocs/internal/frontmatter"
)

// Fingerprint hashes the page content. The fingerprint itself and lastmod
// are excluded so that restamping a page does not change it.
func Fingerprint(fields frontmatter.Fields, body []byte) (string, error) {
	fm, err := frontmatter.Serialize(fields.Without(FieldFingerprint, FieldLastmod))
	if err != nil {
		return "", err
	}
	return mdfp.CalculateFingerprintFromParts(strings.TrimSuffix(string(fm), "\n"), string(body)), nil
}
