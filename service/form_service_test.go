package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-desk/domain"
)

func TestChange_NoValidationBeforeSubmit(t *testing.T) {
	fx := newFixture(t)
	f := domain.NewFormState(nil, false)

	msg, err := fx.forms.Change(f, domain.FieldEmail, "broken")

	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.Empty(t, f.Errors)
	assert.Equal(t, "broken", f.Value(domain.FieldEmail))
	assert.Equal(t, domain.PhaseEditing, f.Phase)
}

func TestChange_UnknownField(t *testing.T) {
	fx := newFixture(t)
	f := domain.NewFormState(nil, false)

	_, err := fx.forms.Change(f, "income", "1")

	assert.ErrorIs(t, err, domain.ErrUnknownField)
}

func TestChange_RevalidatesOnlyChangedFieldAfterSubmit(t *testing.T) {
	fx := newFixture(t)
	f := domain.NewFormState(nil, false)

	valid, err := fx.forms.Submit(context.Background(), f)
	require.NoError(t, err)
	require.False(t, valid)
	require.Len(t, f.Errors, len(domain.Fields))

	msg, err := fx.forms.Change(f, domain.FieldFirstName, "Jane")
	require.NoError(t, err)
	assert.Empty(t, msg)
	assert.NotContains(t, f.Errors, domain.FieldFirstName)
	assert.Len(t, f.Errors, len(domain.Fields)-1)

	msg, err = fx.forms.Change(f, domain.FieldFirstName, "J")
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	assert.Equal(t, msg, f.Error(domain.FieldFirstName))
}

func TestSubmit_ValidForm(t *testing.T) {
	fx := newFixture(t)
	f := validForm(false)
	f.Errors[domain.FieldEmail] = "stale"

	valid, err := fx.forms.Submit(context.Background(), f)

	require.NoError(t, err)
	assert.True(t, valid)
	assert.Empty(t, f.Errors)
	assert.True(t, f.Submitted)
	assert.Equal(t, domain.PhaseSubmittedValid, f.Phase)
	assert.Equal(t, "LN-005", f.RecordID)
	assert.True(t, fx.hasMessage("application submitted"))

	saved, err := fx.records.Get(context.Background(), "LN-005")
	require.NoError(t, err)
	assert.Equal(t, "Jane", saved.FirstName)
	assert.Equal(t, 25000.0, saved.LoanAmount)
	assert.Equal(t, 36, saved.Installment)
	assert.Equal(t, domain.StatusPending, saved.Status)
}

func TestSubmit_StoresApplicationAsPending(t *testing.T) {
	fx := newFixture(t)
	f := validForm(false)
	f.Values[domain.FieldStatus] = domain.StatusApproved

	valid, err := fx.forms.Submit(context.Background(), f)

	require.NoError(t, err)
	require.True(t, valid)
	saved, err := fx.records.Get(context.Background(), f.RecordID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, saved.Status)
}

func TestSubmit_TwiceStoresTwoApplications(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := validForm(false)

	valid, err := fx.forms.Submit(ctx, f)
	require.NoError(t, err)
	require.True(t, valid)
	require.Equal(t, "LN-005", f.RecordID)

	_, err = fx.forms.Change(f, domain.FieldFirstName, "Bob")
	require.NoError(t, err)
	valid, err = fx.forms.Submit(ctx, f)
	require.NoError(t, err)
	require.True(t, valid)
	assert.Equal(t, "LN-006", f.RecordID)

	first, err := fx.records.Get(ctx, "LN-005")
	require.NoError(t, err)
	assert.Equal(t, "Jane", first.FirstName)
	second, err := fx.records.Get(ctx, "LN-006")
	require.NoError(t, err)
	assert.Equal(t, "Bob", second.FirstName)

	records, err := fx.records.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 6)
}

func TestSubmit_InvalidFormPopulatesExactlyInvalidFields(t *testing.T) {
	fx := newFixture(t)
	f := validForm(false)
	f.Values[domain.FieldPhone] = "123"
	f.Values[domain.FieldLoanAmount] = "999"

	valid, err := fx.forms.Submit(context.Background(), f)

	require.NoError(t, err)
	assert.False(t, valid)
	assert.Equal(t, domain.PhaseSubmittedInvalid, f.Phase)
	assert.Len(t, f.Errors, 2)
	assert.NotEmpty(t, f.Error(domain.FieldPhone))
	assert.NotEmpty(t, f.Error(domain.FieldLoanAmount))
	assert.Empty(t, f.RecordID)

	records, _ := fx.records.List(context.Background())
	assert.Len(t, records, 4)
}

func TestSubmit_NotAvailableInModal(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.forms.Submit(context.Background(), validForm(true))

	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}

func TestCancel_StandaloneResetsForm(t *testing.T) {
	fx := newFixture(t)
	f := validForm(false)
	f.Submitted = true
	called := false

	fx.forms.Cancel(context.Background(), f, func() { called = true })

	assert.False(t, called)
	assert.False(t, f.Submitted)
	assert.Equal(t, "", f.Value(domain.FieldFirstName))
	assert.Equal(t, domain.PhaseEditing, f.Phase)
}

func TestCancel_ModalRunsCallback(t *testing.T) {
	fx := newFixture(t)
	called := false

	fx.forms.Cancel(context.Background(), validForm(true), func() { called = true })

	assert.True(t, called)
}

func TestRejectFlow(t *testing.T) {
	fx := newFixture(t)
	f := validForm(true)
	closed := 0
	onClose := func() { closed++ }

	assert.ErrorIs(t, fx.forms.ConfirmReject(f, onClose), domain.ErrInvalidTransition)
	assert.ErrorIs(t, fx.forms.DismissReject(f), domain.ErrInvalidTransition)

	require.NoError(t, fx.forms.RequestReject(f))
	assert.True(t, f.RejectConfirmOpen)

	require.NoError(t, fx.forms.DismissReject(f))
	assert.False(t, f.RejectConfirmOpen)
	assert.Equal(t, 0, closed)

	require.NoError(t, fx.forms.RequestReject(f))
	require.NoError(t, fx.forms.ConfirmReject(f, onClose))
	assert.False(t, f.RejectConfirmOpen)
	assert.Equal(t, 1, closed)
}

func TestRequestReject_OnlyInModal(t *testing.T) {
	fx := newFixture(t)

	assert.ErrorIs(t, fx.forms.RequestReject(validForm(false)), domain.ErrInvalidTransition)
}

func TestAccept_InvalidFormKeepsUploadClosed(t *testing.T) {
	fx := newFixture(t)
	f := validForm(true)
	f.Values[domain.FieldInstallment] = "12.5"

	ok, err := fx.forms.Accept(f)

	require.NoError(t, err)
	assert.False(t, ok)
	assert.False(t, f.UploadOpen)
	assert.Contains(t, f.Errors, domain.FieldInstallment)
	assert.Len(t, f.Errors, 1)
}

func TestUploadFlow(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := validForm(true)

	_, err := fx.forms.AddDocuments(ctx, "s1", f, []domain.Upload{pdf("id.pdf")})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	ok, err := fx.forms.Accept(f)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, f.UploadOpen)

	docs, err := fx.forms.AddDocuments(ctx, "s1", f, []domain.Upload{pdf("id.pdf"), pdf("payslip.pdf")})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "application/pdf", docs[0].ContentType)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)

	_, err = fx.forms.AddDocuments(ctx, "s1", f, []domain.Upload{pdf("statement.pdf")})
	require.NoError(t, err)
	assert.Len(t, f.Documents, 3)
	assert.Equal(t, 3, fx.store.Len())

	require.NoError(t, fx.forms.RemoveDocument(ctx, f, docs[0].ID))
	assert.Len(t, f.Documents, 2)
	assert.Equal(t, 2, fx.store.Len())
	assert.ErrorIs(t, fx.forms.RemoveDocument(ctx, f, docs[0].ID), domain.ErrDocumentNotFound)

	submitted, err := fx.forms.SubmitDocuments(f)
	require.NoError(t, err)
	assert.Len(t, submitted, 2)
	assert.Equal(t, "payslip.pdf", submitted[0].Name)
	assert.False(t, f.UploadOpen)
	assert.Empty(t, f.Documents)
	assert.True(t, fx.hasMessage("documents submitted"))
}

func TestCloseUpload_DiscardsStagedFiles(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := validForm(true)

	_, err := fx.forms.Accept(f)
	require.NoError(t, err)
	_, err = fx.forms.AddDocuments(ctx, "s1", f, []domain.Upload{pdf("a.pdf")})
	require.NoError(t, err)

	require.NoError(t, fx.forms.CloseUpload(ctx, f))

	assert.False(t, f.UploadOpen)
	assert.Empty(t, f.Documents)
	assert.Equal(t, 0, fx.store.Len())
	assert.ErrorIs(t, fx.forms.CloseUpload(ctx, f), domain.ErrInvalidTransition)
}

func TestAddDocuments_RejectsBadFiles(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	f := validForm(true)
	_, err := fx.forms.Accept(f)
	require.NoError(t, err)

	big := domain.Upload{Name: "big.pdf", Data: make([]byte, 2048)}
	cases := [][]domain.Upload{
		nil,
		{{Name: "empty.pdf"}},
		{{Name: "", Data: []byte("x")}},
		{{Name: "virus.exe", Data: []byte("MZ")}},
		{pdf("ok.pdf"), big},
	}
	for _, uploads := range cases {
		_, err := fx.forms.AddDocuments(ctx, "s1", f, uploads)
		assert.ErrorIs(t, err, domain.ErrInvalidDocument)
	}
	assert.Empty(t, f.Documents)
	assert.Equal(t, 0, fx.store.Len())
}
