package common

import (
	"errors"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// UUIDint64 returns a cluster-unique int64 id.
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// UUID returns a cluster-unique id string.
func UUID() string {
	return snowflakeNode.Generate().String()
}

var ErrNoDate = errors.New("no parseable date found")

// ParseFlexibleDate extracts a calendar date from free-form text, such as
// OCR output from a label photo or a dictated phrase. The full string is
// tried first, then each whitespace token.
func ParseFlexibleDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, ErrNoDate
	}
	if t, err := dateparse.ParseAny(s); err == nil {
		return t, nil
	}
	for _, token := range strings.Fields(s) {
		token = strings.Trim(token, ".,;:()")
		if len(token) < 6 {
			continue
		}
		if t, err := dateparse.ParseAny(token); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrNoDate
}
