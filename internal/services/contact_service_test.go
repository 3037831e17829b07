package services

import (
	"context"
	"errors"
	"testing"

	"travel-agency/internal/status"
	"travel-agency/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContactSubmit(t *testing.T) {
	store := newMemStore[models.Contact]()
	notifier := &recordingNotifier{}
	service := NewContactService(store, notifier, testFollowUp, nil)

	result, err := service.Submit(context.Background(), models.ContactRequest{
		Name:    " Ravi ",
		Email:   "ravi@example.com",
		Message: "Is March a good time for Gulmarg?",
	})

	require.NoError(t, err)
	assert.Equal(t, "Ravi", result.Contact.Name)
	assert.Equal(t, models.DefaultContactSubject, result.Contact.Subject)
	assert.Equal(t, models.ContactPending, result.Contact.Status)
	assert.Contains(t, result.FollowUp.Mailto, "subject=Booking%20enquiry")
	require.Len(t, notifier.Events(), 1)
	assert.Equal(t, "contact", notifier.Events()[0].Kind)
}

func TestContactSubmit_Validation(t *testing.T) {
	store := newMemStore[models.Contact]()
	service := NewContactService(store, nil, testFollowUp, nil)

	_, err := service.Submit(context.Background(), models.ContactRequest{Name: "Ravi", Email: "ravi@example.com"})

	assert.ErrorIs(t, err, status.ErrValidation)
	assert.Equal(t, 0, store.Creates())
}

func TestContactSubmit_StoreFailure(t *testing.T) {
	store := newMemStore[models.Contact]()
	store.createErrs = []error{errors.New("db down")}
	service := NewContactService(store, nil, testFollowUp, nil)

	_, err := service.Submit(context.Background(), models.ContactRequest{Name: "Ravi", Email: "ravi@example.com", Message: "Hi"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "store contact")
}
