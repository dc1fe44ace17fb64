package domain

import (
	"strconv"
	"time"

	"github.com/labstack/gommon/random"
)

// NewRecordID returns a client-generated record id: creation timestamp in
// milliseconds plus a random token. Ids are opaque strings everywhere else;
// only uniqueness within a dataset matters.
func NewRecordID() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" +
		random.String(9, random.Lowercase, random.Numeric)
}
