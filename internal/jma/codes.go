package jma

// RegionGroup is a named region and the office codes listed under it
type RegionGroup struct {
	Name  string
	Codes []string
}

// AllowedAreaCodes are the office codes with a published forecast document
var AllowedAreaCodes = []string{
	"011000", "012000", "013000", "014030", "014100", "015000", "016000", "017000",
	"020000", "030000", "040000", "050000", "060000", "070000", "080000", "090000",
	"100000", "110000", "120000", "130000", "140000", "150000", "160000", "170000",
	"180000", "190000", "200000", "210000", "220000", "230000", "240000", "250000",
	"260000", "270000", "280000", "290000", "300000", "310000", "320000", "330000",
	"340000", "350000", "360000", "370000", "380000", "390000", "400000", "410000",
	"420000", "430000", "440000", "450000", "460040", "460100", "471000", "472000",
	"473000", "474000",
}

// RegionGroups is the fixed region layout shown in the region selector
var RegionGroups = []RegionGroup{
	{Name: "北海道", Codes: []string{"011000", "012000", "013000", "014030", "014100", "015000", "016000", "017000"}},
	{Name: "東北地方", Codes: []string{"020000", "030000", "040000", "050000", "060000", "070000"}},
	{Name: "関東地方", Codes: []string{"080000", "090000", "100000", "110000", "120000", "130000", "140000"}},
	{Name: "中部地方", Codes: []string{"150000", "160000", "170000", "180000", "190000", "200000", "210000", "220000", "230000"}},
	{Name: "近畿地方", Codes: []string{"240000", "250000", "260000", "270000", "280000", "290000", "300000"}},
	{Name: "中国地方", Codes: []string{"310000", "320000", "330000", "340000", "350000"}},
	{Name: "四国地方", Codes: []string{"360000", "370000", "380000", "390000"}},
	{Name: "九州地方", Codes: []string{"400000", "410000", "420000", "430000", "440000", "450000", "460100", "460040"}},
	{Name: "沖縄地方", Codes: []string{"471000", "472000", "473000", "474000"}},
}

// codeSet builds a lookup set from a list of codes
func codeSet(codes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		set[c] = struct{}{}
	}
	return set
}

var defaultAllowed = codeSet(AllowedAreaCodes)

// IsAllowed reports whether code is in AllowedAreaCodes
func IsAllowed(code string) bool {
	_, ok := defaultAllowed[code]
	return ok
}
