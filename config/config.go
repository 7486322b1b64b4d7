// Package config loads stream profiles from TOML documents, grounded on
// cmd/mqttradio's Config/RadioConfig structs and its
// github.com/BurntSushi/toml decoding.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// StreamProfile describes one stream's front-end and conversion setup,
// as loaded from a [[stream]] table in a profile document.
type StreamProfile struct {
	Name       string `toml:"name"`
	SFmt       string `toml:"sfmt"`
	SPBurst    int    `toml:"spburst"`
	BurstsPerBlock int `toml:"burstspblk"`
	ChCnt      int    `toml:"chcnt"`
	Channels   []int  `toml:"channels"`
	Core       string `toml:"core"`

	Throttle ThrottleConfig `toml:"throttle"`
	NCO      NCOConfig      `toml:"nco"`
	Mute     uint64         `toml:"mute"`
}

// ThrottleConfig mirrors rxfe.Controller.Throttle's arguments.
type ThrottleConfig struct {
	Enable bool  `toml:"enable"`
	Send   uint8 `toml:"send"`
	Skip   uint8 `toml:"skip"`
}

// NCOConfig mirrors rxfe.Controller.NCOEnable/NCOFreq's arguments.
type NCOConfig struct {
	Enable      bool  `toml:"enable"`
	IQAccumBits uint8 `toml:"iq_accum_bits"`
	Freq        int32 `toml:"freq"`
}

// Document is the top-level profile file: one or more named streams.
type Document struct {
	Streams []StreamProfile `toml:"stream"`
}

// Load reads and decodes a profile file, mirroring
// cmd/mqttradio/main.go's ioutil.ReadFile + toml.Decode sequence.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("config: reading %s: %w", path, err)
	}
	var doc Document
	if _, err := toml.Decode(string(data), &doc); err != nil {
		return Document{}, fmt.Errorf("config: decoding %s: %w", path, err)
	}
	return doc, nil
}

// ByName returns the named stream profile from the document.
func (d Document) ByName(name string) (StreamProfile, bool) {
	for _, s := range d.Streams {
		if s.Name == name {
			return s, true
		}
	}
	return StreamProfile{}, false
}
