package validation

import "path/filepath"

const (
	machineRepoName   = "machine"
	machineSpecFile   = "MACHINE.md"
	legacyMachineSpec = "FSM_SPECIFICATION.md"
)

// MachineSpecValidator applies only to a root directory named "machine": its
// FSM specification must be MACHINE.md, and the legacy name must be gone.
type MachineSpecValidator struct{}

// Name implements Validator.
func (v *MachineSpecValidator) Name() string {
	return "machine-spec"
}

// Validate implements Validator.
func (v *MachineSpecValidator) Validate(root string) ([]Violation, error) {
	if filepath.Base(filepath.Clean(root)) != machineRepoName {
		return nil, nil
	}
	sink := NewSink(root)

	ok, err := exists(filepath.Join(root, machineSpecFile))
	if err != nil {
		return nil, err
	}
	if !ok {
		sink.Add(root, 0, RequirementMachineSpec,
			"FSM specification file is missing or not named MACHINE.md.")
	}

	legacy := filepath.Join(root, legacyMachineSpec)
	ok, err = exists(legacy)
	if err != nil {
		return nil, err
	}
	if ok {
		sink.Add(legacy, 0, RequirementMachineSpec,
			"Legacy FSM_SPECIFICATION.md exists; must be renamed to MACHINE.md.")
	}

	return sink.Violations(), nil
}
