package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

// Load reads the .env file from the current working directory and sets
// environment variables. If .env does not exist, Load returns an error but
// callers can ignore it and use system env or defaults. Pass one or more paths
// to load from specific files (e.g. ".env"); with no paths, ".env" is used.
func Load(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	return godotenv.Load(paths...)
}

// GetEnv returns the value of the environment variable named by key, or fallback
// if the variable is unset or empty.
func GetEnv(key, fallback string) string {
	if s := os.Getenv(key); s != "" {
		return s
	}
	return fallback
}

// GetEnvInt returns the integer value of the environment variable named by key,
// or fallback if the variable is unset, empty, or not a valid integer.
func GetEnvInt(key string, fallback int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	return fallback
}

// Profile is the production profile loaded from a TOML file. It carries the
// project identity used for {PROJECT} filename substitution and the output
// defaults; environment variables override the overlapping keys.
type Profile struct {
	Project ProjectProfile `toml:"project"`
	Output  OutputProfile  `toml:"output"`
	Capture CaptureProfile `toml:"capture"`
}

// ProjectProfile identifies the production.
type ProjectProfile struct {
	Code  string `toml:"code"`
	Title string `toml:"title"`
}

// OutputProfile configures where deliverables are written.
type OutputProfile struct {
	Dir string `toml:"dir"`
}

// CaptureProfile configures the render/capture rate.
type CaptureProfile struct {
	FPS int `toml:"fps"`
}

// DefaultProfile returns the profile used when no TOML file is present.
func DefaultProfile() Profile {
	return Profile{
		Project: ProjectProfile{Code: "PROJ"},
		Output:  OutputProfile{Dir: "out"},
		Capture: CaptureProfile{FPS: 60},
	}
}

// LoadProfile reads the TOML profile at path over the defaults. A missing
// file is not an error; a malformed one is.
func LoadProfile(path string) (Profile, error) {
	p := DefaultProfile()
	if path == "" {
		return p, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return p, nil
	}
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return p, fmt.Errorf("decode profile %s: %w", path, err)
	}
	if p.Project.Code == "" {
		p.Project.Code = DefaultProfile().Project.Code
	}
	if p.Output.Dir == "" {
		p.Output.Dir = DefaultProfile().Output.Dir
	}
	if p.Capture.FPS <= 0 {
		p.Capture.FPS = DefaultProfile().Capture.FPS
	}
	return p, nil
}
