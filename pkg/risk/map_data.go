package risk

import "sync"

// Territory names on the classic board.
const (
	Alaska             TerritoryName = "alaska"
	NorthwestTerritory TerritoryName = "northwest-territory"
	Greenland          TerritoryName = "greenland"
	Alberta            TerritoryName = "alberta"
	Ontario            TerritoryName = "ontario"
	Quebec             TerritoryName = "quebec"
	WesternUS          TerritoryName = "western-us"
	EasternUS          TerritoryName = "eastern-us"
	CentralAmerica     TerritoryName = "central-america"
	Venezuela          TerritoryName = "venezuela"
	Peru               TerritoryName = "peru"
	Brazil             TerritoryName = "brazil"
	Argentina          TerritoryName = "argentina"
	Iceland            TerritoryName = "iceland"
	GreatBritain       TerritoryName = "great-britain"
	Scandinavia        TerritoryName = "scandinavia"
	WesternEurope      TerritoryName = "western-europe"
	NorthernEurope     TerritoryName = "northern-europe"
	SouthernEurope     TerritoryName = "southern-europe"
	Ukraine            TerritoryName = "ukraine"
	NorthAfrica        TerritoryName = "north-africa"
	Egypt              TerritoryName = "egypt"
	EastAfrica         TerritoryName = "east-africa"
	Congo              TerritoryName = "congo"
	SouthAfrica        TerritoryName = "south-africa"
	Madagascar         TerritoryName = "madagascar"
	MiddleEast         TerritoryName = "middle-east"
	Afghanistan        TerritoryName = "afghanistan"
	Ural               TerritoryName = "ural"
	Siberia            TerritoryName = "siberia"
	Yakutsk            TerritoryName = "yakutsk"
	Irkutsk            TerritoryName = "irkutsk"
	Kamchatka          TerritoryName = "kamchatka"
	Mongolia           TerritoryName = "mongolia"
	Japan              TerritoryName = "japan"
	China              TerritoryName = "china"
	India              TerritoryName = "india"
	SoutheastAsia      TerritoryName = "southeast-asia"
	Indonesia          TerritoryName = "indonesia"
	NewGuinea          TerritoryName = "new-guinea"
	WesternAustralia   TerritoryName = "western-australia"
	EasternAustralia   TerritoryName = "eastern-australia"
)

// Continent names on the classic board.
const (
	NorthAmerica ContinentName = "north-america"
	SouthAmerica ContinentName = "south-america"
	Europe       ContinentName = "europe"
	Africa       ContinentName = "africa"
	Asia         ContinentName = "asia"
	Oceania      ContinentName = "oceania"
)

var (
	stdBoardOnce sync.Once
	stdBoardInst *Board
)

// StandardBoard returns the classic 42-territory board with all
// adjacencies and the 6 continents. The board is built once and cached;
// subsequent calls return the same pointer. Callers must not mutate the
// returned board.
func StandardBoard() *Board {
	stdBoardOnce.Do(func() {
		stdBoardInst = buildStandardBoard()
	})
	return stdBoardInst
}

func buildStandardBoard() *Board {
	b := &Board{
		Adjacency:   make(map[TerritoryName][]TerritoryName, TerritoryCount),
		Continents:  make(map[ContinentName]*ContinentData, ContinentCount),
		continentOf: make(map[TerritoryName]ContinentName, TerritoryCount),
	}

	// adj declares a territory with its full neighbor list. Every border
	// is declared on both sides; bidirectionality is covered by tests.
	adj := func(from TerritoryName, to ...TerritoryName) {
		b.Adjacency[from] = to
		b.order = append(b.order, from)
	}

	// continent declares a continent, its bonus, and its members.
	continent := func(name ContinentName, bonus int, members ...TerritoryName) {
		b.Continents[name] = &ContinentData{Name: name, Bonus: bonus, Territories: members}
		for _, m := range members {
			b.continentOf[m] = name
		}
	}

	// --- North America (9) ---
	adj(Alaska, NorthwestTerritory, Alberta, Kamchatka)
	adj(NorthwestTerritory, Alaska, Alberta, Ontario, Greenland)
	adj(Greenland, NorthwestTerritory, Ontario, Quebec, Iceland)
	adj(Alberta, Alaska, NorthwestTerritory, Ontario, WesternUS)
	adj(Ontario, NorthwestTerritory, Alberta, Quebec, Greenland, WesternUS, EasternUS)
	adj(Quebec, Ontario, Greenland, EasternUS)
	adj(WesternUS, Alberta, Ontario, EasternUS, CentralAmerica)
	adj(EasternUS, Ontario, Quebec, WesternUS, CentralAmerica)
	adj(CentralAmerica, WesternUS, EasternUS, Venezuela)

	// --- South America (4) ---
	adj(Venezuela, CentralAmerica, Peru, Brazil)
	adj(Peru, Venezuela, Brazil, Argentina)
	adj(Brazil, Venezuela, Peru, Argentina, NorthAfrica)
	adj(Argentina, Peru, Brazil)

	// --- Europe (7) ---
	adj(Iceland, Greenland, GreatBritain, Scandinavia)
	adj(GreatBritain, Iceland, Scandinavia, WesternEurope, NorthernEurope)
	adj(Scandinavia, Iceland, GreatBritain, NorthernEurope, Ukraine)
	adj(WesternEurope, GreatBritain, NorthernEurope, SouthernEurope, NorthAfrica)
	adj(NorthernEurope, GreatBritain, Scandinavia, WesternEurope, SouthernEurope, Ukraine)
	adj(SouthernEurope, WesternEurope, NorthernEurope, Ukraine, Egypt, NorthAfrica, MiddleEast)
	adj(Ukraine, Scandinavia, NorthernEurope, SouthernEurope, Ural, Afghanistan, MiddleEast)

	// --- Africa (6) ---
	adj(NorthAfrica, Brazil, WesternEurope, SouthernEurope, Egypt, EastAfrica, Congo)
	adj(Egypt, NorthAfrica, SouthernEurope, MiddleEast, EastAfrica)
	adj(EastAfrica, NorthAfrica, Egypt, Congo, SouthAfrica, Madagascar)
	adj(Congo, NorthAfrica, EastAfrica, SouthAfrica)
	adj(SouthAfrica, Congo, EastAfrica, Madagascar)
	adj(Madagascar, EastAfrica, SouthAfrica)

	// --- Asia (12) ---
	adj(MiddleEast, SouthernEurope, Ukraine, Egypt, Afghanistan, India)
	adj(Afghanistan, Ukraine, MiddleEast, Ural, China, India)
	adj(Ural, Ukraine, Afghanistan, Siberia, China)
	adj(Siberia, Ural, Yakutsk, Irkutsk, Mongolia, China)
	adj(Yakutsk, Siberia, Irkutsk, Kamchatka)
	adj(Irkutsk, Siberia, Yakutsk, Kamchatka, Mongolia)
	adj(Kamchatka, Yakutsk, Irkutsk, Mongolia, Japan, Alaska)
	adj(Mongolia, Siberia, Irkutsk, Kamchatka, Japan, China)
	adj(Japan, Kamchatka, Mongolia)
	adj(China, Afghanistan, Ural, Siberia, Mongolia, India, SoutheastAsia)
	adj(India, MiddleEast, Afghanistan, China, SoutheastAsia)
	adj(SoutheastAsia, India, China, Indonesia)

	// --- Oceania (4) ---
	adj(Indonesia, SoutheastAsia, NewGuinea, WesternAustralia)
	adj(NewGuinea, Indonesia, WesternAustralia, EasternAustralia)
	adj(WesternAustralia, Indonesia, NewGuinea, EasternAustralia)
	adj(EasternAustralia, NewGuinea, WesternAustralia)

	continent(NorthAmerica, 5,
		Alaska, NorthwestTerritory, Greenland, Alberta, Ontario, Quebec,
		WesternUS, EasternUS, CentralAmerica)
	continent(SouthAmerica, 2,
		Venezuela, Peru, Brazil, Argentina)
	continent(Europe, 5,
		Iceland, GreatBritain, Scandinavia, WesternEurope, NorthernEurope,
		SouthernEurope, Ukraine)
	continent(Africa, 3,
		NorthAfrica, Egypt, EastAfrica, Congo, SouthAfrica, Madagascar)
	continent(Asia, 7,
		MiddleEast, Afghanistan, Ural, Siberia, Yakutsk, Irkutsk, Kamchatka,
		Mongolia, Japan, China, India, SoutheastAsia)
	continent(Oceania, 2,
		Indonesia, NewGuinea, WesternAustralia, EasternAustralia)

	return b
}
