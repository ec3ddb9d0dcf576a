package domain

var Tables = []interface{}{
	// System
	&SysKv{},
}
