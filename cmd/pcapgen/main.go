// pcapgen writes a capture file of synthesized UDP packets, useful for
// feeding capture-analysis tools or pcapdiff without a live interface.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/gogf/gf/v2/os/gctx"
	"github.com/gogf/gf/v2/os/glog"
	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"

	"pcapfile"
)

var (
	outFile string
	count   int
	snapLen uint
	swap    bool

	log = glog.New()
	ctx = gctx.New()
)

func init() {
	flag.StringVar(&outFile, "o", "out.pcap", "output capture file")
	flag.IntVar(&count, "count", 10, "number of packets to write")
	flag.UintVar(&snapLen, "snaplen", uint(pcapfile.SnapLenDefault), "snapshot length")
	flag.BoolVar(&swap, "swap", false, "store the file in the opposite byte order")
}

func main() {
	flag.Parse()

	f, err := pcapfile.Open(outFile, "w")
	if err != nil {
		log.Fatalf(ctx, "open %s failed:%+v", outFile, err)
	}
	defer f.Close()

	err = f.Init(uint32(layers.LinkTypeEthernet), uint32(snapLen), pcapfile.ZoneDefault, swap)
	if err != nil {
		log.Fatalf(ctx, "init %s failed:%+v", outFile, err)
	}

	start := time.Now()
	for i := 0; i < count; i++ {
		frame, err := buildFrame(uint16(i))
		if err != nil {
			log.Fatalf(ctx, "build packet %d failed:%+v", i, err)
		}
		ci := gopacket.CaptureInfo{
			Timestamp:     start.Add(time.Duration(i) * time.Millisecond),
			CaptureLength: len(frame),
			Length:        len(frame),
		}
		if err := f.WritePacket(ci, frame); err != nil {
			log.Fatalf(ctx, "write packet %d failed:%+v", i, err)
		}
	}

	fmt.Printf("wrote %d packets to %s\n", count, outFile)
}

// buildFrame serializes one Ethernet/IPv4/UDP frame whose payload carries
// the sequence number.
func buildFrame(seq uint16) ([]byte, error) {
	eth := &layers.Ethernet{
		SrcMAC:       []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x01},
		DstMAC:       []byte{0x02, 0x00, 0x00, 0x00, 0x00, 0x02},
		EthernetType: layers.EthernetTypeIPv4,
	}

	ip := &layers.IPv4{
		Version:  4,
		IHL:      5,
		TTL:      64,
		Id:       seq,
		Protocol: layers.IPProtocolUDP,
		SrcIP:    []byte{10, 0, 0, 1},
		DstIP:    []byte{10, 0, 0, 2},
	}

	udp := &layers.UDP{
		SrcPort: 4789,
		DstPort: 4789,
	}
	if err := udp.SetNetworkLayerForChecksum(ip); err != nil {
		return nil, err
	}

	payload := gopacket.Payload([]byte{byte(seq >> 8), byte(seq)})

	buf := gopacket.NewSerializeBuffer()
	opts := gopacket.SerializeOptions{FixLengths: true, ComputeChecksums: true}
	if err := gopacket.SerializeLayers(buf, opts, eth, ip, udp, payload); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
