// Package record defines the validated client entity and the field
// validators that guard its construction.
package record

// Record is one client's validated data. The zero value is not a valid
// Record; build Records with New only.
//
// Fields are unexported so a Record cannot change after construction.
// Records are values and safe to copy.
type Record struct {
	id       int
	name     string
	email    string
	billing  float64
	location string
}

// New validates every raw field in column order and returns a Record.
//
// Construction is atomic: the first failing validator's *FieldError is
// returned and no partially built Record escapes.
func New(id, name, email, billing, location any) (Record, error) {
	validID, err := ValidateID(id)
	if err != nil {
		return Record{}, err
	}

	validName, err := ValidateName(name)
	if err != nil {
		return Record{}, err
	}

	validEmail, err := ValidateEmail(email)
	if err != nil {
		return Record{}, err
	}

	validBilling, err := ValidateBilling(billing)
	if err != nil {
		return Record{}, err
	}

	validLocation, err := ValidateLocation(location)
	if err != nil {
		return Record{}, err
	}

	return Record{
		id:       validID,
		name:     validName,
		email:    validEmail,
		billing:  validBilling,
		location: validLocation,
	}, nil
}

// ID returns the positive client identifier.
func (r Record) ID() int { return r.id }

// Name returns the trimmed client name.
func (r Record) Name() string { return r.name }

// Email returns the validated email address.
func (r Record) Email() string { return r.email }

// Billing returns the billing amount.
func (r Record) Billing() float64 { return r.billing }

// Location returns the trimmed client location.
func (r Record) Location() string { return r.location }

// Values returns the fields in column order: id, name, email, billing, location.
func (r Record) Values() []any {
	return []any{r.id, r.name, r.email, r.billing, r.location}
}
