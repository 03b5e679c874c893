package catalog

import "github.com/hupe1980/chainrag/core"

// SampleChains returns the curated starter catalog of plugin chains. Each
// call returns a fresh slice, safe for callers to mutate.
func SampleChains() []core.PluginChain {
	return []core.PluginChain{
		{
			Name:        "Classic Vocal Chain",
			Description: "Professional vocal processing for pop and rock music",
			Plugins: []core.PluginSpec{
				{Name: "DeEsser", Manufacturer: "FabFilter", Category: "deesser", Position: 1, Settings: "Threshold: -20dB, Frequency: 6kHz"},
				{Name: "CLA-2A", Manufacturer: "Waves", Category: "compressor", Position: 2, Settings: "Limit mode, slow attack/release"},
				{Name: "API 550A", Manufacturer: "Waves", Category: "EQ", Position: 3, Settings: "High shelf +2dB at 10kHz, slight low cut"},
				{Name: "H-Reverb", Manufacturer: "Waves", Category: "reverb", Position: 4, Settings: "Hall preset, 15% wet, pre-delay 40ms"},
			},
			Genre:      "pop",
			Instrument: "vocals",
			Tags:       []string{"professional", "polished", "radio-ready"},
			Rating:     ratingOf(4.7),
			CreatedBy:  "ProEngineer",
		},
		{
			Name:        "Analog Drum Bus",
			Description: "Warm analog-style drum bus processing with SSL glue",
			Plugins: []core.PluginSpec{
				{Name: "SSL G-Master Bus", Manufacturer: "SSL", Category: "compressor", Position: 1, Settings: "4:1 ratio, slow attack, auto release, 2-3dB reduction"},
				{Name: "Pultec EQP-1A", Manufacturer: "UAD", Category: "EQ", Position: 2, Settings: "Low boost at 100Hz, high boost at 10kHz"},
				{Name: "Studer A800", Manufacturer: "UAD", Category: "tape", Position: 3, Settings: "15 IPS, +3 input level"},
			},
			Genre:      "rock",
			Instrument: "drums",
			Tags:       []string{"analog", "warm", "glue", "vintage"},
			Rating:     ratingOf(4.9),
			CreatedBy:  "VintageSound",
		},
		{
			Name:        "Modern Bass Chain",
			Description: "Clean and punchy bass processing for electronic music",
			Plugins: []core.PluginSpec{
				{Name: "Pro-C 2", Manufacturer: "FabFilter", Category: "compressor", Position: 1, Settings: "Clean preset, 4:1 ratio, medium attack"},
				{Name: "Pro-Q 3", Manufacturer: "FabFilter", Category: "EQ", Position: 2, Settings: "High-pass at 40Hz, presence boost at 1kHz"},
				{Name: "Pro-MB", Manufacturer: "FabFilter", Category: "multiband", Position: 3, Settings: "Gentle multiband compression, 3 bands"},
			},
			Genre:      "electronic",
			Instrument: "bass",
			Tags:       []string{"clean", "modern", "punchy"},
			Rating:     ratingOf(4.6),
			CreatedBy:  "EDMPro",
		},
		{
			Name:        "Classic SSL Console Chain",
			Description: "SSL console emulation for professional mixing",
			Plugins: []core.PluginSpec{
				{Name: "SSL 4000 E Channel", Manufacturer: "Waves", Category: "channel strip", Position: 1},
				{Name: "SSL G-Master Bus Compressor", Manufacturer: "SSL", Category: "compressor", Position: 2},
			},
			Genre:      "any",
			Instrument: "mix bus",
			Tags:       []string{"ssl", "console", "professional"},
		},
		{
			Name:        "Analog Mastering Chain",
			Description: "Vintage mastering chain for warm, musical results",
			Plugins: []core.PluginSpec{
				{Name: "Pultec EQP-1A", Manufacturer: "Universal Audio", Category: "EQ", Position: 1},
				{Name: "Fairchild 670", Manufacturer: "Universal Audio", Category: "compressor", Position: 2},
				{Name: "Studer A800", Manufacturer: "Universal Audio", Category: "tape", Position: 3},
			},
			Genre:      "any",
			Instrument: "master",
			Tags:       []string{"mastering", "vintage", "warm"},
		},
	}
}

// SampleKnowledge returns the starter audio engineering knowledge base.
func SampleKnowledge() []core.DocumentChunk {
	return []core.DocumentChunk{
		{
			Content:    "Compression reduces the dynamic range of audio by attenuating loud signals above a threshold. Key parameters include ratio, attack, release, and threshold.",
			Metadata:   map[string]any{"topic": "compression", "type": "definition"},
			Source:     "Audio Engineering Handbook",
			ChunkIndex: 1,
		},
		{
			Content:    "EQ (equalization) adjusts the balance of frequency components. High-pass filters remove low-end rumble, while shelving EQs boost or cut frequency ranges.",
			Metadata:   map[string]any{"topic": "EQ", "type": "definition"},
			Source:     "Mixing Fundamentals",
			ChunkIndex: 1,
		},
	}
}

func ratingOf(v float64) *float64 {
	return &v
}
