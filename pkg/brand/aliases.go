package brand

// DefaultGroups lists known spellings of one manufacturer per group. The first
// member of a group is its canonical name. Cyrillic spellings are folded to Latin
// by Standardize, so only spellings that transliterate differently need listing.
var DefaultGroups = [][]string{
	{"BOSCH", "БОШ", "BOSH"},
	{"MANN-FILTER", "MANN", "МАНН", "MANN+HUMMEL"},
	{"MAHLE", "KNECHT", "MAHLE/KNECHT", "МАЛЕ"},
	{"FEBI BILSTEIN", "FEBI", "ФЕБИ", "BILSTEIN FEBI"},
	{"BILSTEIN", "БИЛЬШТАЙН"},
	{"LEMFORDER", "LEMFÖRDER", "ЛЕМФОРДЕР", "ZF LEMFORDER"},
	{"SACHS", "ZF SACHS", "ЗАКС"},
	{"KYB", "KAYABA", "КАЯБА"},
	{"NGK", "NGK SPARK PLUG", "НГК"},
	{"DENSO", "ДЕНСО", "NIPPONDENSO"},
	{"CONTITECH", "CONTINENTAL", "CONTINENTAL CONTITECH", "КОНТИТЕК"},
	{"GATES", "ГЕЙТС"},
	{"SKF", "СКФ"},
	{"TRW", "TRW AUTOMOTIVE", "ЛУКАС TRW", "LUCAS TRW"},
	{"LUK", "ЛУК", "SCHAEFFLER LUK"},
	{"INA", "ИНА", "SCHAEFFLER INA"},
	{"VALEO", "ВАЛЕО"},
	{"CHAMPION", "ЧЕМПИОН"},
	{"HYUNDAI/KIA", "HYUNDAI", "KIA", "MOBIS", "HYUNDAI MOBIS", "ХЕНДАЙ", "ХУНДАЙ", "КИА"},
	{"TOYOTA", "LEXUS", "TOYOTA/LEXUS", "ТОЙОТА"},
	{"VAG", "VW", "VOLKSWAGEN", "AUDI", "SKODA", "SEAT", "ФОЛЬКСВАГЕН"},
	{"GENERAL MOTORS", "GM", "OPEL", "CHEVROLET", "ОПЕЛЬ", "ШЕВРОЛЕ"},
	{"MERCEDES-BENZ", "MERCEDES", "MB", "DAIMLER", "МЕРСЕДЕС"},
	{"BMW", "БМВ", "MINI"},
	{"NISSAN", "INFINITI", "NISSAN/INFINITI", "НИССАН"},
	{"RENAULT", "РЕНО", "DACIA"},
	{"PSA", "PEUGEOT", "CITROEN", "PEUGEOT/CITROEN", "ПЕЖО", "СИТРОЕН"},
	{"FORD", "ФОРД", "FORD MOTOR"},
	{"MITSUBISHI", "МИЦУБИСИ", "МИТСУБИСИ"},
	{"AUTOVAZ", "LADA", "ВАЗ", "АВТОВАЗ", "VAZ"},
	{"GAZ", "ГАЗ"},
	{"KAMAZ", "КАМАЗ"},
}
