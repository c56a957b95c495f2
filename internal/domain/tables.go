package domain

// Tables is the full registry migrated by the provisioner. Creation order
// matters: AccountingSystem precedes Company, which references it by id.
var Tables = []interface{}{
	// System
	&SysConfig{},
	&AccountingSystem{},
	&Company{},
	&SysUser{},
	// Bookkeeping
	&Voucher{},
	&VoucherEntry{},
}

// TableNames returns the table name of every registered model. The
// initialization inspector checks this exact list, so the inspector and the
// provisioner can never disagree about what "initialized" means.
func TableNames() []string {
	names := make([]string, 0, len(Tables))
	for _, t := range Tables {
		if n, ok := t.(interface{ TableName() string }); ok {
			names = append(names, n.TableName())
		}
	}
	return names
}
