// pcapdiff compares two capture files packet by packet. Exit status is 1
// when the files differ, 0 when they are identical.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/gogf/gf/v2/os/gctx"
	"github.com/gogf/gf/v2/os/glog"
	jsoniter "github.com/json-iterator/go"

	"pcapfile"
)

var (
	snapLen uint
	jsonOut bool

	log = glog.New()
	ctx = gctx.New()
)

func init() {
	flag.UintVar(&snapLen, "snaplen", uint(pcapfile.SnapLenDefault), "compare payloads up to this many bytes")
	flag.BoolVar(&jsonOut, "json", false, "print the result as JSON")
}

type result struct {
	File1   string `json:"file1"`
	File2   string `json:"file2"`
	Differs bool   `json:"differs"`
	Sec     uint32 `json:"sec,omitempty"`
	Usec    uint32 `json:"usec,omitempty"`
}

func main() {
	flag.Parse()

	if flag.NArg() != 2 {
		log.Fatalf(ctx, "usage: pcapdiff [flags] file1 file2")
	}
	file1, file2 := flag.Arg(0), flag.Arg(1)

	differs, sec, usec, err := pcapfile.Diff(file1, file2, uint32(snapLen))
	if err != nil {
		log.Fatalf(ctx, "diff failed:%+v", err)
	}

	if jsonOut {
		out, err := jsoniter.MarshalToString(result{
			File1:   file1,
			File2:   file2,
			Differs: differs,
			Sec:     sec,
			Usec:    usec,
		})
		if err != nil {
			log.Fatalf(ctx, "encode result failed:%+v", err)
		}
		fmt.Println(out)
	} else if differs {
		fmt.Printf("%s and %s first differ at %d.%06d\n", file1, file2, sec, usec)
	} else {
		fmt.Printf("%s and %s are identical\n", file1, file2)
	}

	if differs {
		os.Exit(1)
	}
}
