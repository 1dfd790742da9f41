package service

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Window es un rango horario del día en UTC, extremos inclusive, en
// minutos desde medianoche. Puede cruzar medianoche (start > end).
type Window struct {
	Start int
	End   int
}

// ParseWindow lee "HH:MM-HH:MM".
func ParseWindow(s string) (Window, error) {
	parts := strings.SplitN(strings.TrimSpace(s), "-", 2)
	if len(parts) != 2 {
		return Window{}, fmt.Errorf("ventana invalida %q (formato HH:MM-HH:MM)", s)
	}
	start, err := parseClock(parts[0])
	if err != nil {
		return Window{}, fmt.Errorf("ventana %q: %w", s, err)
	}
	end, err := parseClock(parts[1])
	if err != nil {
		return Window{}, fmt.Errorf("ventana %q: %w", s, err)
	}
	return Window{Start: start, End: end}, nil
}

func parseClock(s string) (int, error) {
	hm := strings.SplitN(strings.TrimSpace(s), ":", 2)
	if len(hm) != 2 {
		return 0, fmt.Errorf("hora invalida %q", s)
	}
	h, err := strconv.Atoi(hm[0])
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("hora invalida %q", s)
	}
	m, err := strconv.Atoi(hm[1])
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("hora invalida %q", s)
	}
	return h*60 + m, nil
}

func (w Window) Contains(t time.Time) bool {
	m := t.UTC().Hour()*60 + t.UTC().Minute()
	if w.Start <= w.End {
		return w.Start <= m && m <= w.End
	}
	// cruza medianoche
	return m >= w.Start || m <= w.End
}

// RegionWindows son las dos ventanas de actividad, disjuntas por diseño:
// sirven para emparejar snapshots "antes/después de la sesión del otro
// lado".
type RegionWindows struct {
	EU Window
	US Window
}

// Active devuelve la región cuya ventana contiene t, si alguna.
func (rw RegionWindows) Active(t time.Time) (string, bool) {
	if rw.EU.Contains(t) {
		return "EU", true
	}
	if rw.US.Contains(t) {
		return "US", true
	}
	return "", false
}

// OppositeRegion: el snapshot contra el que vale la pena comparar es el de
// la otra región (los puntos solo se mueven durante las sesiones).
func OppositeRegion(region string) string {
	if region == "EU" {
		return "US"
	}
	return "EU"
}
