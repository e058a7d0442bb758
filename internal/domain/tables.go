package domain

var Tables = []interface{}{
	&Product{},
	&Category{},
	&Cart{},
	&User{},
}
