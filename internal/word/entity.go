// AngelaMos | 2026
// entity.go

package word

import (
	"time"
)

type Word struct {
	ID         int64     `db:"id"          json:"id"`
	Author     int64     `db:"author"      json:"author"`
	Spelling   string    `db:"spelling"    json:"spelling"`
	Meaning    string    `db:"meaning"     json:"meaning"`
	Level      int       `db:"level"       json:"level"`
	CreatedAt  time.Time `db:"created_at"  json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"  json:"updated_at"`
	ReviewedAt time.Time `db:"reviewed_at" json:"reviewed_at"`

	// Tags carries the ids of the tags linked to this word. It is loaded
	// from the join table, never from the words row itself.
	Tags []int64 `db:"-" json:"tags"`
}
