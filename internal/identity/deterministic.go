package identity

import (
	"strconv"
	"strings"

	hashid "github.com/goliatone/hashid/pkg/hashid"
	"github.com/google/uuid"
)

const namespace = "go-headless"

// UUID derives a deterministic UUID from a stable key using go-hashid,
// falling back to a SHA1 name based UUID when hashing fails.
//
// Callers prefix keys by record type so different entities never collide.
func UUID(key string) uuid.UUID {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return uuid.Nil
	}
	uid, err := hashid.NewUUID(trimmed, hashid.WithHashAlgorithm(hashid.SHA256), hashid.WithNormalization(true))
	if err != nil || uid == uuid.Nil {
		return uuid.NewSHA1(uuid.NameSpaceOID, []byte(trimmed))
	}
	return uid
}

// AssetHandleUUID identifies a registered style or script handle.
func AssetHandleUUID(kind, handle string) uuid.UUID {
	return UUID(namespace + ":asset:" + strings.ToLower(strings.TrimSpace(kind)) + ":" + strings.TrimSpace(handle))
}

// DocumentUUID identifies the stored builder document of a page.
func DocumentUUID(pageID int64) uuid.UUID {
	return UUID(namespace + ":document:" + strconv.FormatInt(pageID, 10))
}
