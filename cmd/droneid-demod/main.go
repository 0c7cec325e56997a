// Command droneid-demod runs the DroneID OFDM demodulator against an
// offline I/Q capture file or a live line-in feed, printing decoded
// frames and a periodic {candidates, decoded, CRC-ok, CRC-err} counter.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rubsyssec/droneid-demod/internal/audio"
	"github.com/rubsyssec/droneid-demod/internal/payload"
	"github.com/rubsyssec/droneid-demod/internal/pipeline"
	"github.com/rubsyssec/droneid-demod/internal/profile"
)

func main() {
	profileName := flag.String("profile", "droneid", "OFDM profile (droneid, droneid-legacy, c2)")
	inputPath := flag.String("input", "", "path to a little-endian float32 I/Q capture file (offline mode)")
	sampleRate := flag.Float64("sample-rate", 50e6, "capture sample rate in Hz (offline mode)")
	enableZC := flag.Bool("enable-zc-detection", true, "run the brute-force ZC root search instead of assuming (600, 147)")
	skipDetection := flag.Bool("skip-detection", false, "bypass the packetizer and treat each chunk as a single packet candidate")
	debug := flag.Bool("debug", false, "log per-frame diagnostics")
	workers := flag.Int("workers", 4, "number of concurrent demod workers")
	live := flag.Bool("live", false, "capture from the default line-in device instead of -input")
	duration := flag.Duration("duration", 0, "stop live capture after this long (0 = run until interrupted)")
	listDevices := flag.Bool("list-devices", false, "list audio devices and exit")
	flag.Parse()

	if *listDevices {
		if err := audio.Init(); err != nil {
			log.Fatalf("droneid-demod: init audio: %v", err)
		}
		defer audio.Terminate()
		if err := audio.PrintDevices(); err != nil {
			log.Fatalf("droneid-demod: %v", err)
		}
		return
	}

	prof, ok := profile.LookupDemod(profile.Name(*profileName))
	if !ok {
		log.Fatalf("droneid-demod: unknown or detection-only profile %q", *profileName)
	}

	p, err := pipeline.New(pipeline.Config{
		Profile:           prof,
		Workers:           *workers,
		EnableZCDetection: *enableZC,
		SkipDetection:     *skipDetection,
	})
	if err != nil {
		log.Fatalf("droneid-demod: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		p.Stop()
		cancel()
	}()

	var src pipeline.SampleSource
	if *live {
		if err := audio.Init(); err != nil {
			log.Fatalf("droneid-demod: init audio: %v", err)
		}
		defer audio.Terminate()

		lineIn, err := audio.NewLineInSource()
		if err != nil {
			log.Fatalf("droneid-demod: %v", err)
		}
		defer lineIn.Close()
		src = lineIn

		if *duration > 0 {
			go func() {
				time.Sleep(*duration)
				p.Stop()
				cancel()
			}()
		}
	} else {
		if *inputPath == "" {
			log.Fatal("droneid-demod: -input is required unless -live is set")
		}
		f, err := os.Open(*inputPath)
		if err != nil {
			log.Fatalf("droneid-demod: %v", err)
		}
		defer f.Close()
		src = newFileSource(f, *sampleRate)
	}

	sink := pipeline.FrameSinkFunc(func(frame []byte, crcOK bool) error {
		if crcOK && len(frame) >= 91 {
			if pl, err := payload.ParsePayload(frame[:91]); err == nil {
				fmt.Println(pl.String())
			}
		}
		if *debug {
			log.Printf("droneid-demod: frame len=%d crc_ok=%v", len(frame), crcOK)
		}
		return nil
	})
	verify := pipeline.CRCVerifierFunc(func(frame []byte) bool {
		return len(frame) >= 91 && payload.Verify(frame[:91])
	})

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()
	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-ticker.C:
				fmt.Println(p.Stats())
			case <-done:
				return
			}
		}
	}()

	if err := p.Run(ctx, src, sink, verify); err != nil {
		log.Fatalf("droneid-demod: %v", err)
	}
	fmt.Println("final:", p.Stats())
}
