package prefabs

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/signpost/anim"
)

func LoadSpec[T any](filename string) (T, error) {
	var zero T
	data, err := Load(filename)
	if err != nil {
		return zero, fmt.Errorf("prefabs: load %s: %w", filename, err)
	}

	var spec T
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return zero, fmt.Errorf("prefabs: unmarshal %s: %w", filename, err)
	}

	return spec, nil
}

// LoadController loads and validates controllers/<name>.yaml.
func LoadController(name string) (anim.ControllerSpec, error) {
	file := resolve("controllers", ".yaml", name)
	spec, err := LoadSpec[anim.ControllerSpec](file)
	if err != nil {
		return anim.ControllerSpec{}, err
	}
	if err := spec.Validate(); err != nil {
		return anim.ControllerSpec{}, fmt.Errorf("prefabs: validate %s: %w", file, err)
	}
	return spec, nil
}

// LoadScript returns the source of scripts/<name>.tengo.
func LoadScript(name string) ([]byte, error) {
	file := resolve("scripts", ".tengo", name)
	data, err := Load(file)
	if err != nil {
		return nil, fmt.Errorf("prefabs: load %s: %w", file, err)
	}
	return data, nil
}

type PlayerSpec struct {
	Name       string `yaml:"name"`
	Controller string `yaml:"controller"`
	Script     string `yaml:"script"`

	MoveSpeed float64  `yaml:"move_speed"`
	Gravity   float64  `yaml:"gravity"`
	Body      BodySpec `yaml:"body"`

	AttackThreshold float64 `yaml:"attack_threshold"`
	AttackPushSpeed float64 `yaml:"attack_push_speed"`
	AttackBrake     float64 `yaml:"attack_brake"`
	AttackHitstop   float64 `yaml:"attack_hitstop"`

	RollCooldown float64 `yaml:"roll_cooldown"`
	RollSpeed    float64 `yaml:"roll_speed"`
	RollBrake    float64 `yaml:"roll_brake"`

	StateColors map[string]YAMLColor `yaml:"state_colors"`
}

type BodySpec struct {
	Mass     float64 `yaml:"mass"`
	Width    float64 `yaml:"width"`
	Height   float64 `yaml:"height"`
	Friction float64 `yaml:"friction"`
}

// LoadPlayerSpec loads actors/<name>.yaml.
func LoadPlayerSpec(name string) (*PlayerSpec, error) {
	spec, err := LoadSpec[PlayerSpec](resolve("actors", ".yaml", name))
	if err != nil {
		return nil, err
	}
	return &spec, nil
}

type YAMLColor struct {
	color.Color
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}

	s := strings.TrimPrefix(value.Value, "#")

	if len(s) != 6 && len(s) != 8 {
		return fmt.Errorf("invalid color format: %s", value.Value)
	}

	parse := func(start int) (uint8, error) {
		v, err := strconv.ParseUint(s[start:start+2], 16, 8)
		return uint8(v), err
	}

	r, err := parse(0)
	if err != nil {
		return err
	}
	g, err := parse(2)
	if err != nil {
		return err
	}
	b, err := parse(4)
	if err != nil {
		return err
	}

	a := uint8(255)
	if len(s) == 8 {
		a, err = parse(6)
		if err != nil {
			return err
		}
	}

	c.Color = color.NRGBA{R: r, G: g, B: b, A: a}
	return nil
}
