package repository

import "time"

// Edit is a single typed field update applied to an Account. The constructors
// below are the only way to build one, so a field can only receive a value of
// its own type.
type Edit interface {
	apply(a *Account)
}

type editFunc func(a *Account)

func (f editFunc) apply(a *Account) { f(a) }

func SetPassword(v string) Edit    { return editFunc(func(a *Account) { a.Password = v }) }
func SetTwoFASecret(v string) Edit { return editFunc(func(a *Account) { a.TwoFASecret = v }) }
func SetCookies(v string) Edit     { return editFunc(func(a *Account) { a.Cookies = v }) }
func SetStatus(v Status) Edit      { return editFunc(func(a *Account) { a.Status = v }) }
func SetFriendCount(v int) Edit    { return editFunc(func(a *Account) { a.FriendCount = v }) }
func SetSuggestions(v bool) Edit   { return editFunc(func(a *Account) { a.HasSuggestions = v }) }
func SetCreatedAt(v time.Time) Edit {
	return editFunc(func(a *Account) { a.CreatedAt = v })
}
func SetNotes(v string) Edit { return editFunc(func(a *Account) { a.Notes = v }) }

// Apply returns a copy of a with every edit applied in order. The id is never
// touched.
func Apply(a Account, edits ...Edit) Account {
	id := a.ID
	for _, e := range edits {
		if e != nil {
			e.apply(&a)
		}
	}
	a.ID = id
	return a
}
