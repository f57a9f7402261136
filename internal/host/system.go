package host

import (
	"errors"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"golang.org/x/text/language"
)

// SystemLocale returns the user's locale as a BCP 47 tag, taken from the
// usual POSIX environment variables. It falls back to "en".
func SystemLocale() string {
	return LocaleFromEnv(os.Environ())
}

// LocaleFromEnv is SystemLocale for an environment in "KEY=value" form, such
// as the one a remote session sends.
func LocaleFromEnv(environ []string) string {
	env := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = v
		}
	}
	for _, name := range []string{"LC_ALL", "LC_MESSAGES", "LANG"} {
		if tag, ok := parseLocale(env[name]); ok {
			return tag
		}
	}
	return "en"
}

// parseLocale turns values like "de_DE.UTF-8" or "pt_BR@euro" into a tag.
func parseLocale(v string) (string, bool) {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "" || v == "C" || v == "POSIX" {
		return "", false
	}
	tag, err := language.Parse(strings.ReplaceAll(v, "_", "-"))
	if err != nil || tag == language.Und {
		return "", false
	}
	return tag.String(), true
}

// OpenURL opens url with the desktop's default handler.
func OpenURL(url string) error {
	if url == "" {
		return errors.New("host: empty url")
	}

	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() { _ = cmd.Wait() }()
	return nil
}
