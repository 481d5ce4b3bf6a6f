package yandex

import (
	"crypto/hmac"
	"crypto/md5" //nolint:gosec // The storage service defines the signature with MD5.
	"crypto/sha1" //nolint:gosec // The storage service defines the signature with HMAC-SHA1.
	"encoding/hex"
	"fmt"
)

// DefaultSignSalt is the salt the storage service expects in link signatures.
const DefaultSignSalt = "XGRlBW9FXlekgbPrRHuSiA"

// LinkSigner derives signed download links from storage locations.
// It is a pure function of its inputs.
type LinkSigner struct {
	salt string
	key  []byte
}

// NewLinkSigner creates a signer. An empty salt falls back to DefaultSignSalt.
func NewLinkSigner(salt string, key []byte) *LinkSigner {
	if salt == "" {
		salt = DefaultSignSalt
	}

	return &LinkSigner{
		salt: salt,
		key:  append([]byte(nil), key...),
	}
}

// Signature returns hex(HMAC-SHA1(key, MD5(salt + path[1:] + s))).
func (s *LinkSigner) Signature(path, secret string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("%w: empty path", ErrMalformedLocation)
	}

	contentDigest := md5.Sum([]byte(s.salt + path[1:] + secret)) //nolint:gosec // See import.

	mac := hmac.New(sha1.New, s.key)
	mac.Write(contentDigest[:])

	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Sign builds "https://{host}/get-{codec}/{signature}/{ts}/{path}".
// The path is inserted as received, including its leading slash.
func (s *LinkSigner) Sign(metadata *TrackDownloadMetadata, location *StorageLocation) (string, error) {
	if metadata == nil || location == nil {
		return "", fmt.Errorf("%w: missing metadata or location", ErrMalformedLocation)
	}

	signature, err := s.Signature(location.Path, location.S)
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("https://%s/get-%s/%s/%s/%s",
		location.Host, metadata.Codec, signature, location.TS, location.Path), nil
}
