package match

import (
	"crypto/sha256"
	"encoding/hex"
)

// Commitment preimages carry a fixed prefix so a commitment proves possession
// of the secret without binding the claim itself. The claim is only disclosed
// at reveal time.
const commitPrefix = "I_report_truth"

func Commitment(secret string) string {
	h := sha256.Sum256([]byte(commitPrefix + secret))
	return hex.EncodeToString(h[:])
}
