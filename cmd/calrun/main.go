package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/knadh/koanf"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"

	yml "gopkg.in/yaml.v2"
)

var (
	// Version is the version number.  Typically injected via ldflags with git build
	Version = "1"

	// ConfigFileName is what it sounds like
	ConfigFileName = "calrun.yml"

	k = koanf.New(".")
)

func setupconfig() {
	k.Load(structs.Provider(defaultConfig(), "koanf"), nil)
	if err := k.Load(file.Provider(ConfigFileName), yaml.Parser()); err != nil {
		errtxt := err.Error()
		if !strings.Contains(errtxt, "no such") { // file missing, who cares
			log.Fatalf("error loading config: %v", err)
		}
	}
}

func root() {
	str := `calrun drives a calibration bench through one measurement protocol:
it shows each test pattern, waits for the display to settle, reads the
colorimeter, and prints the session statistics when the run completes.

Usage:
	calrun <command> [protocol]

Commands:
	run [protocol]
	help
	mkconf
	conf
	version

Protocols:
	grayscale, nearblack, nearwhite, primaries, saturation, contrast,
	everything`
	fmt.Println(str)
}

func help() {
	str := `calrun is configured via its .yaml file.

The meter block selects the colorimeter: type "serial" with port/baud, or
type "sim" for a synthetic bench (no hardware; the mock block sets the
simulated panel's gamma and luminance range).

The display block points at the TCP pattern remote; it is ignored when the
meter is simulated, because the simulator plays both roles.

The run command takes an optional protocol argument overriding the config.`
	fmt.Println(str)
}

func mkconf() {
	c := Config{}
	err := k.Unmarshal("", &c)
	if err != nil {
		log.Fatal(err)
	}
	f, err := os.Create(ConfigFileName)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	err = yml.NewEncoder(f).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func printconf() {
	c := Config{}
	k.Unmarshal("", &c)
	err := yml.NewEncoder(os.Stdout).Encode(c)
	if err != nil {
		log.Fatal(err)
	}
}

func pversion() {
	fmt.Printf("calrun version %v\n", Version)
}

func main() {
	args := os.Args
	if len(args) == 1 {
		root()
		return
	}
	setupconfig()
	switch strings.ToLower(args[1]) {
	case "help":
		help()
	case "mkconf":
		mkconf()
	case "conf":
		printconf()
	case "version":
		pversion()
	case "run":
		c := Config{}
		if err := k.Unmarshal("", &c); err != nil {
			log.Fatal(err)
		}
		if len(args) > 2 {
			c.Protocol = args[2]
		}
		if err := runProtocol(c); err != nil {
			log.Fatal(err)
		}
	default:
		root()
	}
}
