package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidPageToken = errors.New("invalid_page_token")

const (
	DefaultPageSize = 50
	MaxPageSize     = 250
)

type Pagination struct {
	PageToken string `form:"page_token"`
	PageSize  int    `form:"page_size,default=50" binding:"omitempty,gte=1,lte=250"`
}

type Cursor struct {
	ID        string `json:"id,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

type PageInfo struct {
	NextPageToken string `json:"next_page_token"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(data Cursor) (string, error) {
	b, err := json.Marshal(data)
	if err != nil {
		return "", err
	}

	return base64.URLEncoding.EncodeToString(b), nil
}

func DecodeCursor(data string) (*Cursor, error) {
	b, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		return nil, err
	}

	var cursor Cursor
	if err := json.Unmarshal(b, &cursor); err != nil {
		return nil, err
	}

	return &cursor, nil
}

// ParseToken decodes a page token into the position it points past. An
// empty token is the first page and returns ok=false with a nil error.
func ParseToken(token string) (createdAt time.Time, id int64, ok bool, err error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return time.Time{}, 0, false, nil
	}
	cursor, err := DecodeCursor(token)
	if err != nil || cursor == nil {
		return time.Time{}, 0, false, ErrInvalidPageToken
	}
	createdAt, err = time.Parse(time.RFC3339Nano, cursor.CreatedAt)
	if err != nil {
		return time.Time{}, 0, false, ErrInvalidPageToken
	}
	id, err = strconv.ParseInt(cursor.ID, 10, 64)
	if err != nil || id <= 0 {
		return time.Time{}, 0, false, ErrInvalidPageToken
	}
	return createdAt.UTC(), id, true, nil
}

// Validate rejects a page token ParseToken cannot read.
func (p Pagination) Validate() error {
	_, _, _, err := ParseToken(p.PageToken)
	return err
}

// CursorFor builds the token pointing past the given row.
func CursorFor(id string, createdAt time.Time) string {
	token, err := EncodeCursor(Cursor{ID: id, CreatedAt: createdAt.UTC().Format(time.RFC3339Nano)})
	if err != nil {
		return ""
	}
	return token
}

// Normalize clamps the requested page size.
func Normalize(size int) int {
	if size <= 0 {
		return DefaultPageSize
	}
	if size > MaxPageSize {
		return MaxPageSize
	}
	return size
}

// Trim cuts a size+1 result down to the page and reports the page info.
func Trim[T any](data []*T, limit int, extractCursor func(*T) string) ([]*T, PageInfo) {
	if len(data) == 0 {
		return data, PageInfo{HasMore: false}
	}

	hasMore := false
	if len(data) > limit {
		hasMore = true
		data = data[:limit]
	}

	info := PageInfo{HasMore: hasMore}
	if hasMore {
		info.NextPageToken = extractCursor(data[len(data)-1])
	}
	return data, info
}
