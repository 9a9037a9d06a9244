package replay

// WireTape is the compact client form of a tape: metadata plus encoded steps.
type WireTape struct {
	TapeVersion    int        `json:"tapeVersion"`
	ServerSeedHash string     `json:"serverSeedHash"`
	ServerSeed     string     `json:"serverSeed"`
	ClientSeed     string     `json:"clientSeed"`
	Complete       bool       `json:"complete"`
	Steps          []WireStep `json:"steps"`
}

type WireStep struct {
	Kind        string `json:"kind"`
	Seq         int    `json:"seq"`
	EnvelopeB64 string `json:"envelopeB64"`
}

func ToWireTape(tape *Tape) *WireTape {
	if tape == nil {
		return nil
	}
	out := &WireTape{
		TapeVersion:    tape.TapeVersion,
		ServerSeedHash: tape.ServerSeedHash,
		ServerSeed:     tape.ServerSeed,
		ClientSeed:     tape.ClientSeed,
		Complete:       tape.Complete,
		Steps:          make([]WireStep, 0, len(tape.Steps)),
	}
	for _, s := range tape.Steps {
		out.Steps = append(out.Steps, WireStep{
			Kind:        s.Kind,
			Seq:         s.Seq,
			EnvelopeB64: s.EnvelopeB64,
		})
	}
	return out
}
