package storage

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	containerPattern = regexp.MustCompile(`^[a-z0-9](?:[a-z0-9]|-[a-z0-9]){2,62}$`)
	nonAlnum         = regexp.MustCompile(`[^a-z0-9]+`)
)

// ObjectRef identifies an object by container and object name.
// It is persisted as "container/object".
type ObjectRef struct {
	Container string `json:"container"`
	Object    string `json:"object"`
}

// String returns the persisted form of the reference.
func (r ObjectRef) String() string {
	return r.Container + "/" + r.Object
}

// Validate checks that both parts are present and the object name is safe.
func (r ObjectRef) Validate() error {
	if r.Container == "" || r.Object == "" {
		return ErrEmptyKey
	}
	if strings.Contains(r.Object, "..") {
		return ErrInvalidKey
	}
	return ValidateContainerName(r.Container)
}

// ParseRef parses the persisted "container/object" form.
func ParseRef(s string) (ObjectRef, error) {
	container, object, ok := strings.Cut(s, "/")
	if !ok {
		return ObjectRef{}, fmt.Errorf("%w: %q", ErrInvalidKey, s)
	}
	ref := ObjectRef{Container: container, Object: object}
	return ref, ref.Validate()
}

// ContainerName derives a provider-valid container name from a display name.
// The user id suffix keeps names unique and makes creation deterministic per user.
func ContainerName(prefix, displayName string, userID int64) string {
	slug := nonAlnum.ReplaceAllString(strings.ToLower(displayName), "-")
	slug = strings.Trim(slug, "-")

	suffix := fmt.Sprintf("-%d", userID)
	head := strings.Trim(nonAlnum.ReplaceAllString(strings.ToLower(prefix), "-"), "-")
	if head != "" {
		head += "-"
	}

	limit := 63 - len(head) - len(suffix)
	if len(slug) > limit {
		slug = strings.TrimRight(slug[:limit], "-")
	}
	if slug == "" {
		slug = "user"
	}

	return head + slug + suffix
}

// ValidateContainerName reports whether name satisfies provider naming rules.
func ValidateContainerName(name string) error {
	if name == "" {
		return ErrEmptyKey
	}
	if !containerPattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidContainer, name)
	}
	return nil
}
