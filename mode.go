package pcapfile

import (
	"os"
	"strings"

	"github.com/gogf/gf/v2/errors/gerror"
)

// openMode enumerates the six access modes understood by Open.
type openMode int

const (
	modeRead openMode = iota + 1
	modeWrite
	modeAppend
	modeUpdate
	modeWriteRead
	modeReadAppend
)

func (m openMode) String() string {
	switch m {
	case modeRead:
		return "r"
	case modeWrite:
		return "w"
	case modeAppend:
		return "a"
	case modeUpdate:
		return "r+"
	case modeWriteRead:
		return "w+"
	case modeReadAppend:
		return "a+"
	default:
		return "unknown open mode"
	}
}

// modeFacts are the three things the lifecycle needs to know about a mode:
// how to open the OS file, whether a valid header must already be present,
// and whether the handle starts at the end of the file.
type modeFacts struct {
	osFlags    int
	wantHeader bool
	seekEnd    bool
}

func (m openMode) facts() modeFacts {
	switch m {
	case modeRead:
		return modeFacts{os.O_RDONLY, true, false}
	case modeWrite:
		return modeFacts{os.O_WRONLY | os.O_CREATE | os.O_TRUNC, false, false}
	case modeAppend:
		// opened read-write, not O_APPEND: the header has to be read
		// and verified before the handle moves to the end
		return modeFacts{os.O_RDWR, true, true}
	case modeUpdate:
		return modeFacts{os.O_RDWR, true, false}
	case modeWriteRead:
		return modeFacts{os.O_RDWR | os.O_CREATE | os.O_TRUNC, false, false}
	case modeReadAppend:
		return modeFacts{os.O_RDWR, true, true}
	default:
		return modeFacts{}
	}
}

func parseMode(s string) (openMode, error) {
	switch strings.ReplaceAll(s, "b", "") {
	case "r":
		return modeRead, nil
	case "w":
		return modeWrite, nil
	case "a":
		return modeAppend, nil
	case "r+":
		return modeUpdate, nil
	case "w+":
		return modeWriteRead, nil
	case "a+":
		return modeReadAppend, nil
	}
	return 0, gerror.Newf("unknown open mode %q", s)
}
