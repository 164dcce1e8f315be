// AngelaMos | 2026
// entity.go

package tag

import (
	"time"
)

type Tag struct {
	ID        int64     `db:"id"         json:"id"`
	Author    int64     `db:"author"     json:"author"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
