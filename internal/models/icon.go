package models

// Icon is one of the fixed symbolic names the product form can pick from.
// The set is closed: anything outside it resolves to the fallback so the
// client never has to deal with an unknown icon name.
type Icon string

const (
	IconCake      Icon = "cake"
	IconCakeSlice Icon = "cake-slice"
	IconCookie    Icon = "cookie"
	IconCroissant Icon = "croissant"
	IconCandy     Icon = "candy"
	IconDonut     Icon = "donut"
	IconIceCream  Icon = "ice-cream"
	IconPie       Icon = "pie"
	IconCoffee    Icon = "coffee"
	IconCupSoda   Icon = "cup-soda"
)

// IconFallback is used whenever a name outside the set shows up.
const IconFallback = IconCake

// productIcons preserves picker display order.
var productIcons = []Icon{
	IconCake, IconCakeSlice, IconCookie, IconCroissant, IconCandy,
	IconDonut, IconIceCream, IconPie, IconCoffee, IconCupSoda,
}

var iconSet = func() map[Icon]struct{} {
	m := make(map[Icon]struct{}, len(productIcons))
	for _, ic := range productIcons {
		m[ic] = struct{}{}
	}
	return m
}()

// Icons returns the full icon set in display order.
func Icons() []Icon {
	out := make([]Icon, len(productIcons))
	copy(out, productIcons)
	return out
}

// Valid reports whether the icon is part of the known set.
func (i Icon) Valid() bool {
	_, ok := iconSet[i]
	return ok
}

// ParseIcon maps a raw name to a known icon, falling back to IconFallback.
func ParseIcon(s string) Icon {
	if ic := Icon(s); ic.Valid() {
		return ic
	}
	return IconFallback
}
