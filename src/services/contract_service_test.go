// backend/src/services/contract_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openaudit/backend/src/models"
)

func TestContractLifecycle(t *testing.T) {
	svc := NewContractService(openTestDB(t))

	contract, err := svc.RequestContract("company-1", "Acme Traders")
	require.NoError(t, err)
	assert.Contains(t, contract.ID, "contract_")
	assert.Equal(t, models.ContractStatusPending, contract.Status)
	assert.Equal(t, "company-1", contract.CompanyID)
	assert.Equal(t, "Acme Traders", contract.CompanyName)
	assert.NotEmpty(t, contract.RequestedAt)

	// Company signature requires the admin's first.
	_, err = svc.SignContractCompany("company-1", "sig-company")
	assert.ErrorIs(t, err, ErrContractState)

	signed, err := svc.SignContractAdmin(contract.ID, "sig-admin", "/contracts/acme.pdf")
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusSignedAdmin, signed.Status)
	require.NotNil(t, signed.AdminSignature)
	assert.Equal(t, "sig-admin", *signed.AdminSignature)
	require.NotNil(t, signed.SignedContractPDFPath)
	assert.Equal(t, "/contracts/acme.pdf", *signed.SignedContractPDFPath)
	require.NotNil(t, signed.SignedAdminAt)

	// A pending or admin-signed contract blocks a second request.
	_, err = svc.RequestContract("company-1", "Acme Traders")
	assert.ErrorIs(t, err, ErrContractPending)

	active, err := svc.SignContractCompany("company-1", "sig-company")
	require.NoError(t, err)
	assert.Equal(t, models.ContractStatusActive, active.Status)
	require.NotNil(t, active.CompanySignature)
	assert.Equal(t, "sig-company", *active.CompanySignature)
	require.NotNil(t, active.SignedCompanyAt)

	_, err = svc.RequestContract("company-1", "Acme Traders")
	assert.ErrorIs(t, err, ErrContractActive)

	latest, err := svc.GetCompanyContract("company-1")
	require.NoError(t, err)
	assert.Equal(t, contract.ID, latest.ID)
	assert.Equal(t, models.ContractStatusActive, latest.Status)
}

func TestGetCompanyContractNotFound(t *testing.T) {
	svc := NewContractService(openTestDB(t))

	_, err := svc.GetCompanyContract("nobody")
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestSignContractAdminRejectsNonPending(t *testing.T) {
	svc := NewContractService(openTestDB(t))

	contract, err := svc.RequestContract("company-1", "Acme Traders")
	require.NoError(t, err)

	_, err = svc.SignContractAdmin(contract.ID, "sig-admin", "")
	require.NoError(t, err)

	_, err = svc.SignContractAdmin(contract.ID, "sig-admin", "")
	assert.ErrorIs(t, err, ErrContractState)

	_, err = svc.SignContractAdmin("contract_missing", "sig-admin", "")
	assert.ErrorIs(t, err, ErrContractNotFound)
}

func TestPendingAndAllContractListings(t *testing.T) {
	svc := NewContractService(openTestDB(t))

	first, err := svc.RequestContract("company-1", "Acme Traders")
	require.NoError(t, err)
	_, err = svc.RequestContract("company-2", "Beta Corp")
	require.NoError(t, err)

	pending, err := svc.GetPendingContracts()
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	_, err = svc.SignContractAdmin(first.ID, "sig-admin", "")
	require.NoError(t, err)

	pending, err = svc.GetPendingContracts()
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "company-2", pending[0].CompanyID)

	all, err := svc.GetAllContracts()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestUpdateSignedContract(t *testing.T) {
	svc := NewContractService(openTestDB(t))

	contract, err := svc.RequestContract("company-1", "Acme Traders")
	require.NoError(t, err)

	updated, err := svc.UpdateSignedContract(contract.ID, "/contracts/acme-signed.pdf")
	require.NoError(t, err)
	require.NotNil(t, updated.SignedContractPDFPath)
	assert.Equal(t, "/contracts/acme-signed.pdf", *updated.SignedContractPDFPath)

	_, err = svc.UpdateSignedContract("contract_missing", "/x.pdf")
	assert.ErrorIs(t, err, ErrContractNotFound)
}
