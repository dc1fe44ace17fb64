package common

import (
	"math/rand"
	"os"
	"time"

	"github.com/bwmarrin/snowflake"
)

const (
	ENABLED  = "enabled"
	DISABLED = "disabled"
)

var snowflakeNode *snowflake.Node

func init() {
	rand.New(rand.NewSource(time.Now().UnixNano()))
	var err error
	snowflakeNode, err = snowflake.NewNode(rand.Int63n(1023))
	if err != nil {
		panic(err)
	}
}

// UUID returns a snowflake id string
func UUID() string {
	return snowflakeNode.Generate().String()
}

// UUIDint64 returns a snowflake id
func UUIDint64() int64 {
	return snowflakeNode.Generate().Int64()
}

// FileExists checks whether the path exists
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// MakeDir creates the directory if it does not exist
func MakeDir(path string) {
	if !FileExists(path) {
		_ = os.MkdirAll(path, 0755)
	}
}
