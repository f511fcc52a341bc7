// Package catalog holds the draftable character roster. It is served to
// clients on join and doubles as the candidate universe for auto-resolved
// turns.
package catalog

import "github.com/draftarena/tcg-draft-backend/pkg/types"

// Elements in the row order the client renders them.
var Elements = []string{"cryo", "hydro", "pyro", "electro", "anemo", "geo", "dendro"}

var characters = []types.CharacterInfo{
	{ID: "ganyu", Name: "Ganyu", Element: "cryo"},
	{ID: "ayaka", Name: "Kamisato Ayaka", Element: "cryo"},
	{ID: "eula", Name: "Eula", Element: "cryo"},
	{ID: "kaeya", Name: "Kaeya", Element: "cryo"},
	{ID: "shenhe", Name: "Shenhe", Element: "cryo"},
	{ID: "qiqi", Name: "Qiqi", Element: "cryo"},
	{ID: "chongyun", Name: "Chongyun", Element: "cryo"},
	{ID: "mona", Name: "Mona", Element: "hydro"},
	{ID: "xingqiu", Name: "Xingqiu", Element: "hydro"},
	{ID: "ayato", Name: "Kamisato Ayato", Element: "hydro"},
	{ID: "kokomi", Name: "Sangonomiya Kokomi", Element: "hydro"},
	{ID: "candace", Name: "Candace", Element: "hydro"},
	{ID: "nilou", Name: "Nilou", Element: "hydro"},
	{ID: "tartaglia", Name: "Tartaglia", Element: "hydro"},
	{ID: "diluc", Name: "Diluc", Element: "pyro"},
	{ID: "hutao", Name: "Hu Tao", Element: "pyro"},
	{ID: "yoimiya", Name: "Yoimiya", Element: "pyro"},
	{ID: "klee", Name: "Klee", Element: "pyro"},
	{ID: "xiangling", Name: "Xiangling", Element: "pyro"},
	{ID: "bennett", Name: "Bennett", Element: "pyro"},
	{ID: "dehya", Name: "Dehya", Element: "pyro"},
	{ID: "fischl", Name: "Fischl", Element: "electro"},
	{ID: "razor", Name: "Razor", Element: "electro"},
	{ID: "keqing", Name: "Keqing", Element: "electro"},
	{ID: "cyno", Name: "Cyno", Element: "electro"},
	{ID: "yae-miko", Name: "Yae Miko", Element: "electro"},
	{ID: "raiden", Name: "Raiden Shogun", Element: "electro"},
	{ID: "beidou", Name: "Beidou", Element: "electro"},
	{ID: "sucrose", Name: "Sucrose", Element: "anemo"},
	{ID: "jean", Name: "Jean", Element: "anemo"},
	{ID: "venti", Name: "Venti", Element: "anemo"},
	{ID: "kazuha", Name: "Kaedehara Kazuha", Element: "anemo"},
	{ID: "wanderer", Name: "Wanderer", Element: "anemo"},
	{ID: "xiao", Name: "Xiao", Element: "anemo"},
	{ID: "ningguang", Name: "Ningguang", Element: "geo"},
	{ID: "noelle", Name: "Noelle", Element: "geo"},
	{ID: "zhongli", Name: "Zhongli", Element: "geo"},
	{ID: "albedo", Name: "Albedo", Element: "geo"},
	{ID: "itto", Name: "Arataki Itto", Element: "geo"},
	{ID: "collei", Name: "Collei", Element: "dendro"},
	{ID: "tighnari", Name: "Tighnari", Element: "dendro"},
	{ID: "nahida", Name: "Nahida", Element: "dendro"},
	{ID: "alhaitham", Name: "Alhaitham", Element: "dendro"},
	{ID: "baizhu", Name: "Baizhu", Element: "dendro"},
}

// All returns the full roster.
func All() []types.CharacterInfo {
	return characters
}

// ByElement groups the roster into the shape the client renders.
func ByElement() map[string][]types.CharacterInfo {
	out := make(map[string][]types.CharacterInfo, len(Elements))
	for _, e := range Elements {
		out[e] = []types.CharacterInfo{}
	}
	for _, c := range characters {
		out[c.Element] = append(out[c.Element], c)
	}
	return out
}

// IDs returns every draftable character id.
func IDs() []string {
	ids := make([]string, len(characters))
	for i, c := range characters {
		ids[i] = c.ID
	}
	return ids
}
