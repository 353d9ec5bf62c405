package flash

import (
	"fmt"
	"strings"

	"github.com/danmuck/fieldkit/internal/features"
)

// Command is one external invocation in a flash plan.
type Command struct {
	Name string
	Args []string
	Env  []string
}

func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	return strings.Join(parts, " ")
}

// Plan is the ordered work for one flash: a build step, an optional
// bootloader entry, and an optional deploy step that runs once the
// bootloader device is up.
type Plan struct {
	Build           Command
	Deploy          *Command
	NeedsBootloader bool
}

// BuildPlan derives the flash plan from detected features and the resolved
// side. Side must already be concrete ("left"/"right") for split boards.
func BuildPlan(f features.Features, side string) (Plan, error) {
	if f.SplitEnabled && side != "left" && side != "right" {
		return Plan{}, fmt.Errorf("%w: %q", ErrInvalidSide, side)
	}

	if !f.SplitEnabled {
		if f.AutoBootloader {
			return Plan{
				Build:           Command{Name: "qmk", Args: []string{"compile"}},
				NeedsBootloader: true,
			}, nil
		}
		return Plan{Build: Command{Name: "qmk", Args: []string{"flash"}}}, nil
	}

	if !f.AutoBootloader {
		bl := f.Bootloader
		if bl == "rp2040" {
			bl = "uf2"
		}
		return Plan{
			Build: Command{
				Name: "qmk",
				Args: []string{"flash", "-bl", fmt.Sprintf("%s-split-%s", bl, side)},
			},
		}, nil
	}

	// Compile-first: bake the side into the firmware, trigger the
	// bootloader over HID, then deploy.
	sideFlag := fmt.Sprintf("-DMASTER_%[1]s -DINIT_EE_HANDS_%[1]s", strings.ToUpper(side))
	plan := Plan{
		Build: Command{
			Name: "qmk",
			Args: []string{"compile"},
			Env:  []string{"EXTRAFLAGS=" + sideFlag},
		},
		NeedsBootloader: true,
	}

	if f.Bootloader == "rp2040" {
		firmware := fmt.Sprintf("%s_default.uf2", strings.ReplaceAll(f.Keyboard, "/", "_"))
		plan.Deploy = &Command{
			Name: "./util/uf2conv.py",
			Args: []string{"--wait", "--deploy", firmware},
		}
	} else {
		plan.Deploy = &Command{
			Name: "qmk",
			Args: []string{"flash", "-bl", fmt.Sprintf("%s-split-%s", f.Bootloader, side)},
		}
	}
	return plan, nil
}
