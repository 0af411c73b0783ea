package output

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dfreese/gray/physics"
)

// WriteInteractionASCII writes one whitespace-separated line per
// record, columns in the same order WriteInteraction uses (spec
// §4.7): doubles as `%23.16e`, energy as `%12.6e`, positions as
// `%15.8e`.
func WriteInteractionASCII(w io.Writer, flags WriteFlags, e physics.Interaction) error {
	var fields []string
	if flags&FlagTime != 0 {
		fields = append(fields, fmt.Sprintf("%23.16e", e.Time))
	}
	if flags&FlagEnergy != 0 {
		fields = append(fields, fmt.Sprintf("%12.6e", e.Energy))
	}
	if flags&FlagPos != 0 {
		fields = append(fields,
			fmt.Sprintf("%15.8e", e.Pos.X),
			fmt.Sprintf("%15.8e", e.Pos.Y),
			fmt.Sprintf("%15.8e", e.Pos.Z))
	}
	if flags&FlagLog != 0 {
		fields = append(fields, strconv.Itoa(int(e.Type)))
	}
	if flags&FlagDecayID != 0 {
		fields = append(fields, strconv.Itoa(int(e.DecayID)))
	}
	if flags&FlagDetID != 0 {
		fields = append(fields, strconv.Itoa(int(e.DetID)))
	}
	if flags&FlagScatterCounts != 0 {
		fields = append(fields,
			strconv.Itoa(int(e.ScatterComptonPhantom)),
			strconv.Itoa(int(e.ScatterComptonDetector)),
			strconv.Itoa(int(e.ScatterRayleighPhantom)),
			strconv.Itoa(int(e.ScatterRayleighDetector)),
			strconv.Itoa(int(e.XrayFluorescence)))
	}
	if flags&FlagSrcID != 0 {
		fields = append(fields, strconv.Itoa(int(e.SrcID)))
	}
	if flags&FlagMatID != 0 {
		fields = append(fields, strconv.Itoa(int(e.MatID)))
	}
	if flags&FlagCoincID != 0 {
		fields = append(fields, strconv.Itoa(int(e.CoincID)))
	}
	_, err := fmt.Fprintln(w, strings.Join(fields, " "))
	return err
}

// ReadInteractionASCII parses one line written by
// WriteInteractionASCII under the same flags.
func ReadInteractionASCII(line string, flags WriteFlags) (physics.Interaction, error) {
	var e physics.Interaction
	e.CoincID = -1
	fields := strings.Fields(line)
	pop := func() (string, error) {
		if len(fields) == 0 {
			return "", fmt.Errorf("output: ascii record ended early")
		}
		v := fields[0]
		fields = fields[1:]
		return v, nil
	}
	popFloat := func() (float64, error) {
		s, err := pop()
		if err != nil {
			return 0, err
		}
		return strconv.ParseFloat(s, 64)
	}
	popInt := func() (int32, error) {
		s, err := pop()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	}

	var err error
	if flags&FlagTime != 0 {
		if e.Time, err = popFloat(); err != nil {
			return e, err
		}
	}
	if flags&FlagEnergy != 0 {
		if e.Energy, err = popFloat(); err != nil {
			return e, err
		}
	}
	if flags&FlagPos != 0 {
		if e.Pos.X, err = popFloat(); err != nil {
			return e, err
		}
		if e.Pos.Y, err = popFloat(); err != nil {
			return e, err
		}
		if e.Pos.Z, err = popFloat(); err != nil {
			return e, err
		}
	}
	if flags&FlagLog != 0 {
		v, err := popInt()
		if err != nil {
			return e, err
		}
		e.Type = physics.InteractionType(v)
	}
	if flags&FlagDecayID != 0 {
		if e.DecayID, err = popInt(); err != nil {
			return e, err
		}
	}
	if flags&FlagDetID != 0 {
		if e.DetID, err = popInt(); err != nil {
			return e, err
		}
	}
	if flags&FlagScatterCounts != 0 {
		if e.ScatterComptonPhantom, err = popInt(); err != nil {
			return e, err
		}
		if e.ScatterComptonDetector, err = popInt(); err != nil {
			return e, err
		}
		if e.ScatterRayleighPhantom, err = popInt(); err != nil {
			return e, err
		}
		if e.ScatterRayleighDetector, err = popInt(); err != nil {
			return e, err
		}
		if e.XrayFluorescence, err = popInt(); err != nil {
			return e, err
		}
	}
	if flags&FlagSrcID != 0 {
		if e.SrcID, err = popInt(); err != nil {
			return e, err
		}
	}
	if flags&FlagMatID != 0 {
		if e.MatID, err = popInt(); err != nil {
			return e, err
		}
	}
	if flags&FlagCoincID != 0 {
		if e.CoincID, err = popInt(); err != nil {
			return e, err
		}
	}
	return e, nil
}

// ReadAllASCII reads every record from r under flags, stopping at EOF.
func ReadAllASCII(r io.Reader, flags WriteFlags) ([]physics.Interaction, error) {
	var out []physics.Interaction
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		e, err := ReadInteractionASCII(line, flags)
		if err != nil {
			return out, err
		}
		out = append(out, e)
	}
	return out, scanner.Err()
}
