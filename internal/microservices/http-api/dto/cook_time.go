package dto

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCookTime reads an "HH:MM:SS" duration into seconds.
func ParseCookTime(s string) (int, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("cook time %q must be HH:MM:SS", s)
	}
	var v [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("cook time %q must be HH:MM:SS", s)
		}
		v[i] = n
	}
	if v[1] > 59 || v[2] > 59 {
		return 0, fmt.Errorf("cook time %q has minutes or seconds above 59", s)
	}
	return v[0]*3600 + v[1]*60 + v[2], nil
}

// FormatCookTime renders seconds as "HH:MM:SS"; nil stays nil.
func FormatCookTime(seconds *int) *string {
	if seconds == nil {
		return nil
	}
	s := *seconds
	out := fmt.Sprintf("%02d:%02d:%02d", s/3600, (s%3600)/60, s%60)
	return &out
}
