package main

import (
	"bufio"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/shlex"

	"sidetone/host/client"
	"sidetone/host/config"
	"sidetone/host/serial"
)

var (
	configPath = flag.String("config", "", "YAML config file")
	device     = flag.String("device", "", "Serial device path (overrides config)")
	baud       = flag.Int("baud", 0, "Baud rate (overrides config, ignored for USB CDC)")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
)

func main() {
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: Failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *device != "" {
		cfg.Serial.Device = *device
	}
	if *baud > 0 {
		cfg.Serial.Baud = *baud
	}

	serialCfg := serial.DefaultConfig(cfg.Serial.Device)
	serialCfg.Baud = cfg.Serial.Baud
	serialCfg.ReadTimeout = int(cfg.Serial.ReadTimeout / time.Millisecond)

	if *verbose {
		fmt.Printf("Connecting to sidetone firmware on %s...\n", cfg.Serial.Device)
	}
	c, err := client.Connect(serialCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer c.Close()

	if err := c.ConfigTone(cfg.Tone.Pin); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// One-shot mode: sidetone-host tone 700 200
	if flag.NArg() > 0 {
		if err := runCommand(c, &cfg, flag.Args()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println("Enter commands (type 'help' for available commands, 'quit' to exit):")
	scanner := bufio.NewScanner(os.Stdin)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}

		args, err := shlex.Split(scanner.Text())
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		switch args[0] {
		case "quit", "exit", "q":
			_ = c.NoTone(cfg.Tone.Pin)
			return

		case "help", "?":
			printHelp()

		default:
			if err := runCommand(c, &cfg, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "Error reading input: %v\n", err)
		os.Exit(1)
	}
}

func printHelp() {
	fmt.Println("\nAvailable commands:")
	fmt.Println("  tone [hz] [ms]  - Play a tone (default frequency from config, ms 0 = until stop)")
	fmt.Println("  stop            - Silence the tone")
	fmt.Println("  state           - Show the generator state")
	fmt.Println("  pin <n>         - Move the tone to another pin")
	fmt.Println("  help            - Show this help message")
	fmt.Println("  quit/exit/q     - Exit the program")
	fmt.Println()
}

// toneClient is the part of client.Client the command runner uses
type toneClient interface {
	ConfigTone(pin uint32) error
	Tone(pin, hz uint32, duration time.Duration) error
	NoTone(pin uint32) error
	GetTone() (client.State, error)
}

// runCommand executes one tokenized command line
func runCommand(c toneClient, cfg *config.Config, args []string) error {
	switch args[0] {
	case "tone", "t":
		hz, duration, err := parseToneArgs(cfg, args[1:])
		if err != nil {
			return err
		}
		return c.Tone(cfg.Tone.Pin, hz, duration)

	case "stop", "s":
		return c.NoTone(cfg.Tone.Pin)

	case "state":
		state, err := c.GetTone()
		if err != nil {
			return err
		}
		fmt.Printf("pin=%d freq=%d playing=%t\n", state.Pin, state.Freq, state.Playing)
		return nil

	case "pin":
		if len(args) != 2 {
			return fmt.Errorf("usage: pin <n>")
		}
		pin, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return fmt.Errorf("invalid pin %q: %w", args[1], err)
		}
		cfg.Tone.Pin = uint32(pin)
		return c.ConfigTone(cfg.Tone.Pin)

	default:
		return fmt.Errorf("unknown command: %s (type 'help' for available commands)", args[0])
	}
}

// parseToneArgs reads the optional frequency and duration of a tone command
func parseToneArgs(cfg *config.Config, args []string) (uint32, time.Duration, error) {
	if len(args) > 2 {
		return 0, 0, fmt.Errorf("usage: tone [hz] [ms]")
	}

	hz := cfg.Tone.Freq
	duration := cfg.Tone.Duration

	if len(args) > 0 {
		v, err := strconv.ParseUint(args[0], 10, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid frequency %q: %w", args[0], err)
		}
		hz = uint32(v)
	}
	if err := cfg.CheckFreq(hz); err != nil {
		return 0, 0, err
	}

	if len(args) > 1 {
		ms, err := strconv.ParseUint(args[1], 10, 32)
		if err != nil {
			return 0, 0, fmt.Errorf("invalid duration %q: %w", args[1], err)
		}
		duration = time.Duration(ms) * time.Millisecond
	}
	if err := config.CheckDuration(duration); err != nil {
		return 0, 0, err
	}

	return hz, duration, nil
}
