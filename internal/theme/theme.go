// Package theme defines the device color schemes.
package theme

// Theme is a device color scheme. Colors are hex strings.
type Theme struct {
	Key          string
	Name         string
	WheelColors  [2]string
	ScreenColor  string
	BorderColors [2]string
}

var (
	wheel  = [2]string{"#F5F5F5", "#E0E0E0"}
	screen = "#A8D5E5"
)

// All lists the themes in menu order.
var All = []Theme{
	{Key: "white", Name: "Classic White", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#FFFFFF", "#F0F0F0"}},
	{Key: "black", Name: "Classic Black", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#2C2C2C", "#1A1A1A"}},
	{Key: "pink", Name: "Pink", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#FFB3D9", "#FF8DC7"}},
	{Key: "glitterypink", Name: "Hot Pink", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#FF1493", "#FF1493"}},
	{Key: "blue", Name: "Blue", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#87CEEB", "#5AB9E8"}},
	{Key: "green", Name: "Green", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#90EE90", "#70DD70"}},
	{Key: "red", Name: "Product RED", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#E74C3C", "#D03C2B"}},
	{Key: "purple", Name: "Purple", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#9B59B6", "#8D4CA8"}},
	{Key: "orange", Name: "Orange", WheelColors: wheel, ScreenColor: screen, BorderColors: [2]string{"#FFA500", "#FF9C10"}},
}

// Default is the theme used when none is configured.
func Default() Theme {
	return All[0]
}

// Lookup returns the theme with the given key.
func Lookup(key string) (Theme, bool) {
	for _, t := range All {
		if t.Key == key {
			return t, true
		}
	}
	return Theme{}, false
}

// Get returns the theme with the given key, or the default.
func Get(key string) Theme {
	if t, ok := Lookup(key); ok {
		return t
	}
	return Default()
}

// Keys returns all theme keys in menu order.
func Keys() []string {
	keys := make([]string, len(All))
	for i, t := range All {
		keys[i] = t.Key
	}
	return keys
}
