package gazetteer

// DefaultTables returns a fresh copy of the built-in gazetteer. Callers may
// append overrides to the returned value without affecting other copies.
func DefaultTables() Tables {
	return Tables{
		Places:    clonePlaces(defaultPlaces),
		Regions:   append([]Region(nil), defaultRegions...),
		Centers:   append([]RegionCenter(nil), defaultCenters...),
		Districts: append([]District(nil), defaultDistricts...),
		Seas:      append([]Sea(nil), defaultSeas...),
		Sources:   append([]SourceRule(nil), defaultSources...),
	}
}

func clonePlaces(in []Place) []Place {
	out := make([]Place, len(in))
	for i, p := range in {
		p.Keys = append([]string(nil), p.Keys...)
		p.Context = append([]string(nil), p.Context...)
		out[i] = p
	}
	return out
}

var defaultPlaces = []Place{
	{Name: "Київ", Keys: []string{"kyiv", "київ", "kiev"}, Lat: 50.45, Lng: 30.52, Region: "kyiv"},
	{Name: "Харків", Keys: []string{"kharkiv", "харків"}, Lat: 49.98, Lng: 36.25, Region: "kharkivska"},
	{Name: "Одеса", Keys: []string{"odesa", "odessa", "одеса", "одессе"}, Lat: 46.48, Lng: 30.72, Region: "odeska"},
	{Name: "Затока", Keys: []string{"затока", "zatoka", "затоке", "в затоке", "у затоці"}, Lat: 46.07, Lng: 30.47, Region: "odeska"},
	{Name: "Львів", Keys: []string{"lviv", "львів"}, Lat: 49.84, Lng: 24.03, Region: "lvivska"},
	{Name: "Вінниця", Keys: []string{"vinnytsia", "vinnytsya", "вінниця", "винница"}, Lat: 49.23, Lng: 28.47, Region: "vinnytska"},
	{Name: "Житомир", Keys: []string{"zhytomyr", "житомир"}, Lat: 50.25, Lng: 28.66, Region: "zhytomyrska"},
	{Name: "Черкаси", Keys: []string{"cherkasy", "черкаси"}, Lat: 49.44, Lng: 32.06, Region: "cherkaska"},
	{Name: "Дніпро", Keys: []string{"dnipro", "дніпро"}, Lat: 48.46, Lng: 35.05, Region: "dniprovska"},
	{Name: "Кривий Ріг", Keys: []string{"kryvyi rih", "кривий ріг", "кривой рог"}, Lat: 47.91, Lng: 33.39, Region: "dniprovska"},
	{Name: "Кропивницький", Keys: []string{"kropyvnytskyi", "кропивницький", "кировоград"}, Lat: 48.51, Lng: 32.26, Region: "kirovohradska"},
	{Name: "Запоріжжя", Keys: []string{"zaporizh", "запор"}, Lat: 47.84, Lng: 35.14, Region: "zaporizka"},
	{Name: "Миколаїв", Keys: []string{"mykolaiv", "николаев", "миколаїв"}, Lat: 46.97, Lng: 31.99, Region: "mykolaivska"},
	{Name: "Херсон", Keys: []string{"kherson", "херсон"}, Lat: 46.63, Lng: 32.62, Region: "khersonska"},
	{Name: "Маріуполь", Keys: []string{"mariupol", "маріуполь", "мариуполь"}, Lat: 47.1, Lng: 37.55, Region: "donetska"},
	{Name: "Краматорськ", Keys: []string{"kramatorsk", "краматорськ", "краматорск"}, Lat: 48.72, Lng: 37.56, Region: "donetska"},
	{Name: "Слов'янськ", Keys: []string{"sloviansk", "slovyansk", "слов'янськ", "славянск"}, Lat: 48.85, Lng: 37.6, Region: "donetska"},
	{Name: "Донецьк", Keys: []string{"donetsk", "донецьк", "донецк"}, Lat: 48.02, Lng: 37.8, Region: "donetska"},
	{Name: "Луганськ", Keys: []string{"luhansk", "луганськ", "луганск"}, Lat: 48.57, Lng: 39.31, Region: "luhanska"},
	{Name: "Чернігів", Keys: []string{"chernih", "черніг"}, Lat: 51.5, Lng: 31.3, Region: "chernihivska"},
	{Name: "Суми", Keys: []string{"sumy", "суми"}, Lat: 50.91, Lng: 34.8, Region: "sumyska"},
	{Name: "Полтава", Keys: []string{"poltava", "полтава"}, Lat: 49.59, Lng: 34.55, Region: "poltavska"},
	{Name: "Оржицький район", Keys: []string{"оржицький район", "оржицкий район", "orzhytskyi"}, Lat: 49.74, Lng: 32.92, Region: "poltavska"},
	{Name: "Веселе (Харківська)", Keys: []string{"веселе", "веселое", "vesele"}, Context: []string{"харків", "харківська", "kharkiv"}, Lat: 49.62, Lng: 36.03, Region: "kharkivska"},
	{Name: "Веселе (Запорізька)", Keys: []string{"веселе", "веселое", "vesele"}, Context: []string{"запор", "запорізька", "zaporizh"}, Lat: 47.27, Lng: 35.55, Region: "zaporizka"},
	{Name: "Рівне", Keys: []string{"rivne", "рівне", "ровно"}, Lat: 50.62, Lng: 26.25, Region: "rivnenska"},
	{Name: "Луцьк", Keys: []string{"lutsk", "луцьк", "луцк"}, Lat: 50.75, Lng: 25.34, Region: "volynska"},
	{Name: "Тернопіль", Keys: []string{"ternopil", "тернопіль", "тернополь"}, Lat: 49.55, Lng: 25.59, Region: "ternopilska"},
	{Name: "Івано-Франківськ", Keys: []string{"ivano-frankivsk", "івано-франківськ", "ивано-франковск"}, Lat: 48.92, Lng: 24.71, Region: "ivano-frankivska"},
	{Name: "Чернівці", Keys: []string{"chernivtsi", "чернівці", "черновцы"}, Lat: 48.29, Lng: 25.94, Region: "chernivetska"},
	{Name: "Ужгород", Keys: []string{"uzhhorod", "uzhgorod", "ужгород"}, Lat: 48.62, Lng: 22.3, Region: "zakarpatska"},
	{Name: "Хмельницький", Keys: []string{"khmelnytskyi", "хмельницький", "хмельницкий"}, Lat: 49.42, Lng: 26.99, Region: "khmelnytska"},
	{Name: "Кременчук", Keys: []string{"kremenchuk", "кременчук"}, Lat: 49.07, Lng: 33.41, Region: "poltavska"},
	{Name: "Біла Церква", Keys: []string{"bila tserkva", "біла церква", "белая церковь"}, Lat: 49.8, Lng: 30.11, Region: "kyivska"},
	{Name: "Бровари", Keys: []string{"brovary", "бровари"}, Lat: 50.51, Lng: 30.79, Region: "kyivska"},
	{Name: "Бориспіль", Keys: []string{"boryspil", "бориспіль", "борисполь"}, Lat: 50.35, Lng: 30.96, Region: "kyivska"},
	{Name: "Переяслав", Keys: []string{"pereiaslav", "переяслав"}, Lat: 50.07, Lng: 31.45, Region: "kyivska"},
	{Name: "Обухів", Keys: []string{"obukhiv", "обухів", "обухов"}, Lat: 50.11, Lng: 30.62, Region: "kyivska"},
	{Name: "Фастів", Keys: []string{"fastiv", "фастів", "фастов"}, Lat: 50.08, Lng: 29.92, Region: "kyivska"},
	{Name: "Конотоп", Keys: []string{"konotop", "конотоп"}, Lat: 51.24, Lng: 33.2, Region: "sumyska"},
	{Name: "Шостка", Keys: []string{"shostka", "шостка"}, Lat: 51.86, Lng: 33.48, Region: "sumyska"},
	{Name: "Охтирка", Keys: []string{"okhtyrka", "охтирка", "ахтырка"}, Lat: 50.31, Lng: 34.9, Region: "sumyska"},
	{Name: "Ромни", Keys: []string{"romny", "ромни", "ромны"}, Lat: 50.75, Lng: 33.47, Region: "sumyska"},
	{Name: "Ніжин", Keys: []string{"nizhyn", "ніжин", "нежин"}, Lat: 51.05, Lng: 31.89, Region: "chernihivska"},
	{Name: "Прилуки", Keys: []string{"pryluky", "прилуки"}, Lat: 50.59, Lng: 32.39, Region: "chernihivska"},
	{Name: "Умань", Keys: []string{"uman", "умань"}, Lat: 48.75, Lng: 30.22, Region: "cherkaska"},
	{Name: "Сміла", Keys: []string{"smila", "сміла", "смела"}, Lat: 49.22, Lng: 31.89, Region: "cherkaska"},
	{Name: "Канів", Keys: []string{"kaniv", "канів", "канев"}, Lat: 49.75, Lng: 31.46, Region: "cherkaska"},
	{Name: "Кам'янське", Keys: []string{"kamianske", "кам'янське", "каменское"}, Lat: 48.51, Lng: 34.61, Region: "dniprovska"},
	{Name: "Нікополь", Keys: []string{"nikopol", "нікополь", "никополь"}, Lat: 47.57, Lng: 34.4, Region: "dniprovska"},
	{Name: "Павлоград", Keys: []string{"pavlohrad", "павлоград"}, Lat: 48.53, Lng: 35.87, Region: "dniprovska"},
	{Name: "Синельникове", Keys: []string{"synelnykove", "синельникове", "синельниково"}, Lat: 48.32, Lng: 35.52, Region: "dniprovska"},
	{Name: "Самар", Keys: []string{"novomoskovsk", "самар", "новомосковськ", "новомосковск"}, Lat: 48.64, Lng: 35.25, Region: "dniprovska"},
	{Name: "Ізюм", Keys: []string{"izium", "ізюм", "изюм"}, Lat: 49.21, Lng: 37.26, Region: "kharkivska"},
	{Name: "Куп'янськ", Keys: []string{"kupiansk", "куп'янськ", "купянск"}, Lat: 49.72, Lng: 37.61, Region: "kharkivska"},
	{Name: "Чугуїв", Keys: []string{"chuhuiv", "чугуїв", "чугуев"}, Lat: 49.84, Lng: 36.69, Region: "kharkivska"},
	{Name: "Лозова", Keys: []string{"lozova", "лозова"}, Lat: 48.89, Lng: 36.32, Region: "kharkivska"},
	{Name: "Бердичів", Keys: []string{"berdychiv", "бердичів", "бердичев"}, Lat: 49.9, Lng: 28.59, Region: "zhytomyrska"},
	{Name: "Коростень", Keys: []string{"korosten", "коростень"}, Lat: 50.95, Lng: 28.64, Region: "zhytomyrska"},
	{Name: "Звягель", Keys: []string{"zviahel", "звягель", "новоград-волинський", "новоград-волынский"}, Lat: 50.59, Lng: 27.62, Region: "zhytomyrska"},
	{Name: "Ковель", Keys: []string{"kovel", "ковель"}, Lat: 51.21, Lng: 24.71, Region: "volynska"},
	{Name: "Дубно", Keys: []string{"dubno", "дубно"}, Lat: 50.41, Lng: 25.73, Region: "rivnenska"},
	{Name: "Чортків", Keys: []string{"chortkiv", "чортків", "чортков"}, Lat: 49.02, Lng: 25.8, Region: "ternopilska"},
	{Name: "Коломия", Keys: []string{"kolomyia", "коломия"}, Lat: 48.53, Lng: 25.04, Region: "ivano-frankivska"},
	{Name: "Стрий", Keys: []string{"stryi", "стрий"}, Lat: 49.26, Lng: 23.86, Region: "lvivska"},
	{Name: "Дрогобич", Keys: []string{"drohobych", "дрогобич", "дрогобыч"}, Lat: 49.35, Lng: 23.5, Region: "lvivska"},
	{Name: "Борислав", Keys: []string{"boryslav", "борислав"}, Lat: 49.28, Lng: 23.43, Region: "lvivska"},
	{Name: "Яворів", Keys: []string{"yavoriv", "яворів", "яворов"}, Lat: 49.94, Lng: 23.38, Region: "lvivska"},
	{Name: "Калуш", Keys: []string{"kalush", "калуш"}, Lat: 49.04, Lng: 24.37, Region: "ivano-frankivska"},
	{Name: "Мукачево", Keys: []string{"mukachevo", "мукачево"}, Lat: 48.44, Lng: 22.72, Region: "zakarpatska"},
	{Name: "Берегове", Keys: []string{"berehove", "берегове", "берегово"}, Lat: 48.2, Lng: 22.64, Region: "zakarpatska"},
	{Name: "Хуст", Keys: []string{"khust", "хуст"}, Lat: 48.17, Lng: 23.3, Region: "zakarpatska"},
	{Name: "Білгород-Дністровський", Keys: []string{"bilhorod-dnistrovskyi", "білгород-дністровський", "белгород-днестровский"}, Lat: 46.19, Lng: 30.35, Region: "odeska"},
	{Name: "Чорноморськ", Keys: []string{"chornomorsk", "чорноморськ", "ильичевск"}, Lat: 46.3, Lng: 30.65, Region: "odeska"},
	{Name: "Южне", Keys: []string{"yuzhne", "южне", "южный"}, Lat: 46.62, Lng: 31.1, Region: "odeska"},
	{Name: "Подільськ", Keys: []string{"podilsk", "подільськ", "подольск"}, Lat: 47.75, Lng: 29.53, Region: "odeska"},
	{Name: "Первомайськ", Keys: []string{"pervomaisk", "первомайськ", "первомайск"}, Lat: 48.04, Lng: 30.85, Region: "mykolaivska"},
	{Name: "Вознесенськ", Keys: []string{"voznesensk", "вознесенськ", "вознесенск"}, Lat: 47.57, Lng: 31.33, Region: "mykolaivska"},
	{Name: "Нова Одеса", Keys: []string{"nova odesa", "нова одеса", "новая одесса"}, Lat: 47.31, Lng: 31.78, Region: "mykolaivska"},
	{Name: "Баштанка", Keys: []string{"bashtanka", "баштанка"}, Lat: 47.4, Lng: 32.44, Region: "mykolaivska"},
	{Name: "Токмак", Keys: []string{"tokmak", "токмак"}, Lat: 47.25, Lng: 35.71, Region: "zaporizka"},
	{Name: "Мелітополь", Keys: []string{"melitopol", "мелітополь", "мелитополь"}, Lat: 46.84, Lng: 35.37, Region: "zaporizka"},
	{Name: "Бердянськ", Keys: []string{"berdiansk", "бердянськ", "бердянск"}, Lat: 46.77, Lng: 36.79, Region: "zaporizka"},
	{Name: "Пологи", Keys: []string{"polohy", "пологи"}, Lat: 47.49, Lng: 36.25, Region: "zaporizka"},
	{Name: "Покровськ", Keys: []string{"pokrovsk", "покровськ", "покровск"}, Lat: 48.28, Lng: 37.18, Region: "donetska"},
	{Name: "Мирноград", Keys: []string{"myrnohrad", "мирноград", "димитров"}, Lat: 48.3, Lng: 37.25, Region: "donetska"},
	{Name: "Добропілля", Keys: []string{"dobropillia", "добропілля", "доброполье"}, Lat: 48.47, Lng: 37.08, Region: "donetska"},
	{Name: "Костянтинівка", Keys: []string{"kostiantynivka", "костянтинівка", "константиновка"}, Lat: 48.53, Lng: 37.71, Region: "donetska"},
	{Name: "Дружківка", Keys: []string{"druzhkivka", "дружківка", "дружковка"}, Lat: 48.61, Lng: 37.53, Region: "donetska"},
	{Name: "Авдіївка", Keys: []string{"avdiivka", "авдіївка", "авдеевка"}, Lat: 48.14, Lng: 37.74, Region: "donetska"},
	{Name: "Сіверськ", Keys: []string{"siversk", "сіверськ", "северск"}, Lat: 48.87, Lng: 38.1, Region: "donetska"},
	{Name: "Лисичанськ", Keys: []string{"lysychansk", "лисичанськ", "лисичанск"}, Lat: 48.91, Lng: 38.43, Region: "luhanska"},
	{Name: "Сєвєродонецьк", Keys: []string{"sievierodonetsk", "сєвєродонецьк", "северодонецк"}, Lat: 48.95, Lng: 38.49, Region: "luhanska"},
	{Name: "Старобільськ", Keys: []string{"starobilsk", "старобільськ", "старобельск"}, Lat: 49.28, Lng: 38.91, Region: "luhanska"},
	{Name: "Каховка", Keys: []string{"kakhovka", "каховка"}, Lat: 46.81, Lng: 33.48, Region: "khersonska"},
	{Name: "Нова Каховка", Keys: []string{"nova kakhovka", "нова каховка"}, Lat: 46.75, Lng: 33.36, Region: "khersonska"},
	{Name: "Берислав", Keys: []string{"beryslav", "берислав"}, Lat: 46.84, Lng: 33.43, Region: "khersonska"},
	{Name: "Генічеськ", Keys: []string{"henichesk", "генічеськ", "геническ"}, Lat: 46.17, Lng: 34.8, Region: "khersonska"},
	{Name: "Скадовськ", Keys: []string{"skadovsk", "скадовськ", "скадовск"}, Lat: 46.11, Lng: 32.91, Region: "khersonska"},
}

var defaultRegions = []Region{
	{ID: "kyivska", Keys: []string{"київська", "киевская", "київщина", "киевщина"}},
	{ID: "kyiv", Keys: []string{"київ", "kiev", "kyiv"}, Parent: "kyivska"},
	{ID: "kharkivska", Keys: []string{"харківська", "харьковская", "харківщина", "харьковщина"}},
	{ID: "odeska", Keys: []string{"одеська", "одесская", "одещина", "одеса", "одесса"}},
	{ID: "lvivska", Keys: []string{"львівська", "львовская", "львівщина", "львовщина"}},
	{ID: "dniprovska", Keys: []string{"дніпропетровська", "днепропетровская", "дніпропетровщина"}},
	{ID: "zaporizka", Keys: []string{"запорізька", "запорожская", "запоріжжя", "запорожье"}},
	{ID: "mykolaivska", Keys: []string{"миколаївська", "николаевская", "миколаївщина", "николаевщина"}},
	{ID: "khersonska", Keys: []string{"херсонська", "херсонская", "херсонщина"}},
	{ID: "chernihivska", Keys: []string{"чернігівська", "черниговская", "чернігівщина", "черниговщина"}},
	{ID: "sumyska", Keys: []string{"сумська", "сумская", "сумщина"}},
	{ID: "poltavska", Keys: []string{"полтавська", "полтавская", "полтавщина"}},
	{ID: "rivnenska", Keys: []string{"рівненська", "ровенская", "рівненщина", "ровенщина"}},
	{ID: "volynska", Keys: []string{"волинська", "волынская", "волинь"}},
	{ID: "ternopilska", Keys: []string{"тернопільська", "тернопольская", "тернопільщина", "тернопольщина"}},
	{ID: "ivano-frankivska", Keys: []string{"івано-франківська", "ивано-франковская", "прикарпаття"}},
	{ID: "chernivetska", Keys: []string{"чернівецька", "черновицкая", "буковина"}},
	{ID: "zakarpatska", Keys: []string{"закарпатська", "закарпатская", "закарпаття"}},
	{ID: "khmelnytska", Keys: []string{"хмельницька", "хмельницкая", "хмельниччина"}},
	{ID: "vinnytska", Keys: []string{"вінницька", "винницкая", "вінниччина", "винниччина"}},
	{ID: "zhytomyrska", Keys: []string{"житомирська", "житомирская", "житомирщина"}},
	{ID: "cherkaska", Keys: []string{"черкаська", "черкасская", "черкащина"}},
	{ID: "kirovohradska", Keys: []string{"кіровоградська", "кировоградская", "кіровоградщина", "кировоградщина"}},
	{ID: "donetska", Keys: []string{"донецька", "донецкая", "донеччина"}},
	{ID: "luhanska", Keys: []string{"луганська", "луганская", "луганщина"}},
	{ID: "crimea", Keys: []string{"крим", "арк", "ар крым", "автономна республіка крим", "автономная республика крым"}},
	{ID: "sevastopol", Keys: []string{"севастополь", "м. севастополь", "місто севастополь"}},
}

var defaultCenters = []RegionCenter{
	{ID: "kyivska", Name: "Київська", Lat: 50.45, Lng: 30.52},
	{ID: "kharkivska", Name: "Харківська", Lat: 49.98, Lng: 36.25},
	{ID: "odeska", Name: "Одеська", Lat: 46.48, Lng: 30.72},
	{ID: "lvivska", Name: "Львівська", Lat: 49.84, Lng: 24.03},
	{ID: "dniprovska", Name: "Дніпропетровська", Lat: 48.46, Lng: 35.05},
	{ID: "zaporizka", Name: "Запорізька", Lat: 47.84, Lng: 35.14},
	{ID: "mykolaivska", Name: "Миколаївська", Lat: 46.97, Lng: 31.99},
	{ID: "khersonska", Name: "Херсонська", Lat: 46.63, Lng: 32.62},
	{ID: "chernihivska", Name: "Чернігівська", Lat: 51.5, Lng: 31.3},
	{ID: "sumyska", Name: "Сумська", Lat: 50.91, Lng: 34.8},
	{ID: "poltavska", Name: "Полтавська", Lat: 49.59, Lng: 34.55},
	{ID: "crimea", Name: "АР Крим", Lat: 45.3, Lng: 34.2},
	{ID: "sevastopol", Name: "Севастополь", Lat: 44.6, Lng: 33.5},
}

var defaultDistricts = []District{
	{ID: "chernihivska:novhorod-siverskyi", RegionID: "chernihivska", Name: "Новгород-Сіверський район", Keys: []string{"новгород-сіверський район", "новгород северский район"}, Lat: 52.0, Lng: 33.3},
	{ID: "sumyska:konotopskyi", RegionID: "sumyska", Name: "Конотопський район", Keys: []string{"конотопський район", "конотопский район"}, Lat: 51.24, Lng: 33.2},
	{ID: "sumyska:shostkynskyi", RegionID: "sumyska", Name: "Шосткинський район", Keys: []string{"шосткинський район", "шосткинский район"}, Lat: 51.87, Lng: 33.48},
	{ID: "kharkivska:bohodukhivskyi", RegionID: "kharkivska", Name: "Богодухівський район", Keys: []string{"богодухівський район", "богодуховский район"}, Lat: 50.16, Lng: 35.53},
	{ID: "kharkivska:kharkivskyi", RegionID: "kharkivska", Name: "Харківський район", Keys: []string{"харківський район", "харьковский район"}, Lat: 49.95, Lng: 36.3},
	{ID: "kharkivska:chuhuivskyi", RegionID: "kharkivska", Name: "Чугуївський район", Keys: []string{"чугуївський район", "чугуевский район"}, Lat: 49.83, Lng: 36.68},
	{ID: "kharkivska:kupianskyi", RegionID: "kharkivska", Name: "Куп'янський район", Keys: []string{"куп'янський район", "купянский район"}, Lat: 49.72, Lng: 37.62},
	{ID: "kharkivska:izyumskyi", RegionID: "kharkivska", Name: "Ізюмський район", Keys: []string{"ізюмський район", "изюмский район"}, Lat: 49.21, Lng: 37.28},
	{ID: "kharkivska:lozivskyi", RegionID: "kharkivska", Name: "Лозівський район", Keys: []string{"лозівський район", "лозовский район"}, Lat: 48.89, Lng: 36.32},
	{ID: "dniprovska:synelnykivskyi", RegionID: "dniprovska", Name: "Синельниківський район", Keys: []string{"синельниківський район", "синельниковский район"}, Lat: 48.32, Lng: 35.52},
	{ID: "zaporizka:vasylivskyi", RegionID: "zaporizka", Name: "Василівський район", Keys: []string{"василівський район", "васильевский район"}, Lat: 47.45, Lng: 35.28},
	{ID: "zaporizka:melitopolskyi", RegionID: "zaporizka", Name: "Мелітопольський район", Keys: []string{"мелітопольський район", "мелитопольский район"}, Lat: 46.85, Lng: 35.37},
	{ID: "zaporizka:berdianskyi", RegionID: "zaporizka", Name: "Бердянський район", Keys: []string{"бердянський район", "бердянский район"}, Lat: 46.77, Lng: 36.79},
	{ID: "zaporizka:polohivskyi", RegionID: "zaporizka", Name: "Пологівський район", Keys: []string{"пологівський район", "пологовский район"}, Lat: 47.49, Lng: 36.25},
	{ID: "donetska:kramatorskyi", RegionID: "donetska", Name: "Краматорський район", Keys: []string{"краматорський район", "краматорский район"}, Lat: 48.72, Lng: 37.56},
	{ID: "donetska:volnovaskyi", RegionID: "donetska", Name: "Волноваський район", Keys: []string{"волноваський район", "волновахский район"}, Lat: 47.6, Lng: 37.5},
	{ID: "donetska:pokrovskyi", RegionID: "donetska", Name: "Покровський район", Keys: []string{"покровський район", "покровский район"}, Lat: 48.28, Lng: 37.18},
	{ID: "luhanska:alchevskyi", RegionID: "luhanska", Name: "Алчевський район", Keys: []string{"алчевський район", "алчевский район"}, Lat: 48.47, Lng: 38.8},
	{ID: "luhanska:starobilskyi", RegionID: "luhanska", Name: "Старобільський район", Keys: []string{"старобільський район", "старобельский район"}, Lat: 49.28, Lng: 38.9},
	{ID: "luhanska:sievierodonetskyi", RegionID: "luhanska", Name: "Сєвєродонецький район", Keys: []string{"сєвєродонецький район", "северодонецкий район"}, Lat: 48.95, Lng: 38.49},
	{ID: "khersonska:skadovskyi", RegionID: "khersonska", Name: "Скадовський район", Keys: []string{"скадовський район", "скадовский район"}, Lat: 46.12, Lng: 32.92},
	{ID: "khersonska:kakhovskyi", RegionID: "khersonska", Name: "Каховський район", Keys: []string{"каховський район", "каховский район"}, Lat: 46.77, Lng: 33.45},
}

// The first sea is the default anchor used when a message mentions the sea
// without naming it, and for aviation reports.
var defaultSeas = []Sea{
	{Name: "Чорне море", Keys: []string{"black sea", "чорне море", "черное море", "blacksea"}, Lat: 44.6, Lng: 33.3},
	{Name: "Азовське море", Keys: []string{"azov sea", "азовське море", "азовское море", "azovsea"}, Lat: 46.3, Lng: 36.9},
}

var defaultSources = []SourceRule{
	{Match: "tlknews", Region: "kharkivska", Mode: SourceExclusive},
	{Match: "xydessa_live", Region: "odeska", Mode: SourceDefault},
	{Match: "pivdenmedia", Region: "odeska", Mode: SourceDefault},
	{Match: "kyivoperat", Region: "kyiv", Mode: SourcePreferred},
	{Match: "dneproperatyv", Region: "dniprovska", Mode: SourcePreferred},
	{Match: "dnipro_alerts", Region: "dniprovska", Mode: SourcePreferred},
	{Match: "onemaster_kr", Region: "dniprovska", Mode: SourcePreferred},
	{Match: "chernigivoperative", Region: "chernihivska", Mode: SourcePreferred},
}
