package gazetteer

// Keyword tables shared by the extraction and alarm stages. All entries are
// already in normalized form. Treat them as read-only.
var (
	ReconKeywords = []string{
		"розвіддрон", "разведдрон", "розвідка бпла", "разведка бпла",
		"розвідник", "разведчик", "розвідувальний бпла", "разведывательный бпла",
		"орлан", "supercam", "zala",
	}

	// ShahedKeywords match as substrings, except ShahedPrefixes which must
	// start a word ("гер" would otherwise fire inside unrelated words).
	ShahedKeywords = []string{
		"shahed", "шахед", "дрон", "бпла", "бплa", "бпл", "uav", "u a v", "беспил", "молния",
	}
	ShahedPrefixes = []string{"гер"}

	MissileKeywords = []string{"missile", "ракета", "крилат", "баліст", "ballistic"}

	// KABTokens are matched as whole tokens with an optional plural suffix.
	KABTokens   = []string{"kab", "каб"}
	KABSuffixes = []string{"", "и", "ів", "ы"}

	AviationPhrases = []string{
		"тактичної авіації", "тактической авиации",
		"ворожої авіації", "вражеской авиации",
		"активність авіації", "активность авиации",
		"бойової авіації", "боевой авиации",
	}

	DownedWords = []string{"збит", "сбит", "знищ", "уничтож", "downed"}

	TrackContextWords = []string{
		"бпла", "бпл", "дрон", "шахед", "uav", "курс", "йде на", "летить", "літає",
		"над", "повз", "поблизу", "біля", "в районі", "в р-ні", "в р-не",
		"у напрямку", "в направлении", "загроза", "небезпека",
	}

	TurnWords = []string{
		"свернув", "свернул", "повернув", "повернул", "змінив курс", "изменил курс",
		"курс на", "в сторону", "changed course", "turned toward", "turned to", "course to",
	}

	AlarmOnWords = []string{
		"тривога", "повітряна", "воздушная", "сирена", "оголошено", "оголошена",
		"увімкнено", "включена", "загроза", "небезпека", "🚨",
	}
	AlarmClearWords = []string{"відбій", "отбой", "скасовано", "відміна", "отмена"}

	// SeaWords mark an unnamed sea mention; they resolve to the default sea.
	SeaWords = []string{"море", "морем", "морі", "моря", "sea"}

	TestWords = []string{"тест", "test"}
)
