package field

// DataType is the closed enumeration of field data types. It covers the
// user-assignable types plus the reserved system types that back generated
// framework columns.
type DataType string

// User-assignable data types.
const (
	SingleLineText       DataType = "SingleLineText"
	MultiLineText        DataType = "MultiLineText"
	Email                DataType = "Email"
	WholeNumber          DataType = "WholeNumber"
	DateTime             DataType = "DateTime"
	DecimalNumber        DataType = "DecimalNumber"
	Lookup               DataType = "Lookup"
	MultiSelectOptionSet DataType = "MultiSelectOptionSet"
	OptionSet            DataType = "OptionSet"
	Boolean              DataType = "Boolean"
	GeographicLocation   DataType = "GeographicLocation"
)

// System data types. Fields of these types are owned by the platform and
// cannot be created, updated, or deleted through the facade.
const (
	ID        DataType = "Id"
	CreatedAt DataType = "CreatedAt"
	UpdatedAt DataType = "UpdatedAt"
	Roles     DataType = "Roles"
	Username  DataType = "Username"
	Password  DataType = "Password"
)

// systemDataTypes is the fixed system set, checked by every mutation path.
var systemDataTypes = map[DataType]struct{}{
	ID:        {},
	CreatedAt: {},
	UpdatedAt: {},
	Roles:     {},
	Username:  {},
	Password:  {},
}

// IsSystem reports whether d is a reserved system data type.
func (d DataType) IsSystem() bool {
	_, ok := systemDataTypes[d]
	return ok
}

// IsValid reports whether d is a member of the enumeration.
func (d DataType) IsValid() bool {
	switch d {
	case SingleLineText, MultiLineText, Email, WholeNumber, DateTime,
		DecimalNumber, Lookup, MultiSelectOptionSet, OptionSet, Boolean,
		GeographicLocation, ID, CreatedAt, UpdatedAt, Roles, Username, Password:
		return true
	}
	return false
}
