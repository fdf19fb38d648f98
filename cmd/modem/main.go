package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jeongseonghan/soft-modem/internal/audio"
	"github.com/jeongseonghan/soft-modem/internal/modem"
	"github.com/jeongseonghan/soft-modem/internal/protocol"
	"github.com/jeongseonghan/soft-modem/internal/server"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	addr := flag.String("addr", "0.0.0.0:8080", "Server address (serve mode)")
	subcarriers := flag.Int("subcarriers", 64, "Number of OFDM subcarriers")
	cpLen := flag.Int("cp", 4, "Cyclic prefix length in samples")
	pilotEvery := flag.Int("pilot-every", 4, "Pilot subcarrier spacing (0 = no pilots)")
	modName := flag.String("modulation", "16qam", "Modulation: qpsk, 16qam, 64qam, 256qam")
	sampleRate := flag.Float64("rate", audio.DefaultSampleRate, "Audio sample rate")
	listDevices := flag.Bool("list-devices", false, "List audio devices and exit")
	serve := flag.Bool("serve", false, "Run the HTTP/WebSocket control server")
	loopback := flag.String("loopback", "", "Run a loopback round trip of the given text and exit")
	send := flag.String("send", "", "Modulate the given text and play it over audio")
	flag.Parse()

	if *configPath != "" {
		fc, err := loadConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		if fc.NumSubcarriers != 0 {
			*subcarriers = fc.NumSubcarriers
		}
		if fc.CyclicPrefixLen != 0 {
			*cpLen = fc.CyclicPrefixLen
		}
		if fc.PilotEvery != 0 {
			*pilotEvery = fc.PilotEvery
		}
		if fc.Modulation != "" {
			*modName = fc.Modulation
		}
		if fc.SampleRate != 0 {
			*sampleRate = fc.SampleRate
		}
		if fc.Addr != "" {
			*addr = fc.Addr
		}
	}

	mod, err := parseModulation(*modName)
	if err != nil {
		log.Fatalf("Invalid modulation: %v", err)
	}

	cfg := modem.Config{
		NumSubcarriers:  *subcarriers,
		CyclicPrefixLen: *cpLen,
		PilotEvery:      *pilotEvery,
		Modulation:      mod,
	}

	switch {
	case *listDevices:
		withPortAudio(func() {
			if err := audio.PrintDevices(); err != nil {
				log.Fatalf("Failed to list devices: %v", err)
			}
		})

	case *loopback != "":
		runLoopback(cfg, *loopback)

	case *send != "":
		withPortAudio(func() {
			runSend(cfg, *send, *sampleRate)
		})

	case *serve:
		runServer(cfg, *addr)

	default:
		flag.Usage()
		os.Exit(2)
	}
}

func withPortAudio(fn func()) {
	if err := audio.Init(); err != nil {
		log.Fatalf("Failed to initialize PortAudio: %v", err)
	}
	defer audio.Terminate()
	fn()
}

func runLoopback(cfg modem.Config, text string) {
	link, err := protocol.NewLink(cfg)
	if err != nil {
		log.Fatalf("Failed to create link: %v", err)
	}

	samples, err := link.Send([]byte(text))
	if err != nil {
		log.Fatalf("Modulate: %v", err)
	}
	recovered, err := link.Receive(samples, len(text))
	if err != nil {
		log.Fatalf("Demodulate: %v", err)
	}

	fmt.Printf("modulation:   %s\n", cfg.Modulation)
	fmt.Printf("symbols:      %d (%d samples)\n", len(samples)/link.SymbolLength(), len(samples))
	fmt.Printf("recovered:    %q\n", recovered)
	if string(recovered) != text {
		log.Fatal("loopback round trip FAILED")
	}
	fmt.Println("loopback round trip OK")
}

func runSend(cfg modem.Config, text string, sampleRate float64) {
	link, err := protocol.NewLink(cfg)
	if err != nil {
		log.Fatalf("Failed to create link: %v", err)
	}

	samples, err := link.Send([]byte(text))
	if err != nil {
		log.Fatalf("Modulate: %v", err)
	}

	stream := audio.NewIQStream(link.SymbolLength(), sampleRate)
	if err := stream.OpenOutput(); err != nil {
		log.Fatalf("Open output: %v", err)
	}
	defer stream.Close()
	if err := stream.StartOutput(); err != nil {
		log.Fatalf("Start output: %v", err)
	}

	log.Printf("Playing %d symbols (%d samples) at %.0f Hz",
		len(samples)/link.SymbolLength(), len(samples), sampleRate)
	if err := stream.WriteAll(modem.SamplesToFloat32(samples)); err != nil {
		log.Fatalf("Write samples: %v", err)
	}
}

func runServer(cfg modem.Config, addr string) {
	handlers, err := server.NewHandlers(cfg)
	if err != nil {
		log.Fatalf("Failed to create handlers: %v", err)
	}
	srv := server.NewServer(addr, handlers)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nShutting down...")
		os.Exit(0)
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
