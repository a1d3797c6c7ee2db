package core

import "github.com/google/uuid"

// Identifier tags an engine object with a stable debug identity. The tag is
// human readable; the UUID disambiguates objects sharing a tag.
type Identifier struct {
	ID  uuid.UUID
	Tag string
}

func NewIdentifier(tag string) Identifier {
	return Identifier{
		ID:  uuid.New(),
		Tag: tag,
	}
}

func (i Identifier) String() string {
	if i.Tag == "" {
		return i.ID.String()
	}
	return i.Tag + "-" + i.ID.String()[:8]
}
