package domain

var Tables = []interface{}{
	// Catalog
	&ProductRow{},
	&CategoryRow{},
	&AppSettingsRow{},
	&TombstoneRow{},
	// System
	&SysOprLog{},
}
