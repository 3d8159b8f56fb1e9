package utilities

import (
	"os"
	"strconv"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

// nodes caches one snowflake node per id; a fresh node per call would reset
// the sequence and could repeat ids within a millisecond.
var nodes sync.Map

// NewKSUID generates a new globally unique KSUID string.
func NewKSUID() string {
	return ksuid.New().String()
}

// NewSnowflakeID generates a snowflake ID string using the node id from
// SNOWFLAKE_NODE, defaulting to node 1.
func NewSnowflakeID() string {
	nodeID, err := strconv.ParseInt(os.Getenv("SNOWFLAKE_NODE"), 10, 64)
	if err != nil {
		nodeID = 1
	}
	return NewSnowflakeIDWithNode(nodeID)
}

// NewSnowflakeIDWithNode generates a snowflake ID string using the provided node ID.
// If the node cannot be initialized, it falls back to a KSUID string.
func NewSnowflakeIDWithNode(nodeID int64) string {
	if n, ok := nodes.Load(nodeID); ok {
		return n.(*snowflake.Node).Generate().String()
	}
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return NewKSUID()
	}
	n, _ := nodes.LoadOrStore(nodeID, node)
	return n.(*snowflake.Node).Generate().String()
}
