package db

// Record is implemented by every model edited through the generic catalogue
// services.
type Record interface {
	RecordID() uint
	SetRecordID(id uint)
	Label() string
}

// Authored is implemented by records that remember which account created them.
type Authored interface {
	SetCreatedBy(accountID uint)
}

// Slugged is implemented by records addressed by a URL slug.
type Slugged interface {
	SlugSource() string
	SlugField() *string
}

// RichText is implemented by records with HTML fields that must be
// sanitised before they are stored.
type RichText interface {
	RichTextFields() []*string
}
