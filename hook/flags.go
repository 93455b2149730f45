// SPDX-License-Identifier: GPL-3.0-or-later

package hook

// Flag tags a [Hook] with core-recognized behavior.
type Flag int

const (
	// Fatal marks a hook whose failure diverts the entire state to the
	// failure chain instead of merely recording a negative exit code.
	Fatal Flag = iota
)

var flagNames = map[Flag]string{
	Fatal: "Fatal",
}

// String implements [fmt.Stringer].
func (f Flag) String() string {
	if name, ok := flagNames[f]; ok {
		return name
	}
	return "Flag(unknown)"
}
