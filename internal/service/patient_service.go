package service

import (
	"context"
	"strings"

	"discharge-assist-be/internal/dto"
	"discharge-assist-be/internal/entity"
	"discharge-assist-be/internal/repository/memory"
	"discharge-assist-be/internal/repository/specification"
	"discharge-assist-be/internal/repository/unitofwork"
	"discharge-assist-be/pkg/agent/router"
	"discharge-assist-be/pkg/store"

	"github.com/google/uuid"
)

type IPatientService interface {
	Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error)
	FindByName(ctx context.Context, name string) (*dto.FindPatientsResponse, error)
}

type patientService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPatientService(uowFactory unitofwork.RepositoryFactory) IPatientService {
	return &patientService{
		uowFactory: uowFactory,
	}
}

func (s *patientService) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error) {
	patient := &entity.Patient{
		Id:                    uuid.New(),
		Name:                  req.Name,
		DischargeDate:         req.DischargeDate,
		PrimaryDiagnosis:      req.PrimaryDiagnosis,
		Medications:           req.Medications,
		FollowUp:              req.FollowUp,
		WarningSigns:          req.WarningSigns,
		DischargeInstructions: req.DischargeInstructions,
		Notes:                 req.Notes,
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PatientRepository().Create(ctx, patient); err != nil {
		return nil, err
	}

	return &dto.CreatePatientResponse{Id: patient.Id}, nil
}

func (s *patientService) FindByName(ctx context.Context, name string) (*dto.FindPatientsResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	patients, err := uow.PatientRepository().FindAll(ctx,
		specification.NameContains{Name: strings.TrimSpace(name)},
		specification.OrderBy{Field: "name"},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.FindPatientsResponse{Patients: make([]dto.PatientResponse, len(patients))}
	for i, p := range patients {
		res.Patients[i] = toPatientResponse(p)
	}
	return res, nil
}

func toPatientResponse(p *entity.Patient) dto.PatientResponse {
	return dto.PatientResponse{
		Id:                    p.Id,
		Name:                  p.Name,
		DischargeDate:         p.DischargeDate,
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           p.Medications,
		FollowUp:              p.FollowUp,
		WarningSigns:          p.WarningSigns,
		DischargeInstructions: p.DischargeInstructions,
		Notes:                 p.Notes,
	}
}

// memoryPatientService serves the patient API from the in-memory
// directory when no database is configured.
type memoryPatientService struct {
	dir *memory.PatientDirectory
}

func NewMemoryPatientService(dir *memory.PatientDirectory) IPatientService {
	return &memoryPatientService{dir: dir}
}

func (s *memoryPatientService) Create(ctx context.Context, req *dto.CreatePatientRequest) (*dto.CreatePatientResponse, error) {
	id := uuid.New()
	s.dir.Add(&store.PatientRecord{
		ID:                    id.String(),
		Name:                  req.Name,
		DischargeDate:         req.DischargeDate,
		PrimaryDiagnosis:      req.PrimaryDiagnosis,
		Medications:           req.Medications,
		FollowUp:              req.FollowUp,
		WarningSigns:          req.WarningSigns,
		DischargeInstructions: req.DischargeInstructions,
		Notes:                 req.Notes,
	})
	return &dto.CreatePatientResponse{Id: id}, nil
}

func (s *memoryPatientService) FindByName(ctx context.Context, name string) (*dto.FindPatientsResponse, error) {
	records, err := s.dir.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	res := &dto.FindPatientsResponse{Patients: make([]dto.PatientResponse, len(records))}
	for i, r := range records {
		id, _ := uuid.Parse(r.ID)
		res.Patients[i] = dto.PatientResponse{
			Id:                    id,
			Name:                  r.Name,
			DischargeDate:         r.DischargeDate,
			PrimaryDiagnosis:      r.PrimaryDiagnosis,
			Medications:           r.Medications,
			FollowUp:              r.FollowUp,
			WarningSigns:          r.WarningSigns,
			DischargeInstructions: r.DischargeInstructions,
			Notes:                 r.Notes,
		}
	}
	return res, nil
}

// patientDirectory exposes the patient repository through the router's
// lookup interface, translating entities into the conversation-layer
// snapshot type.
type patientDirectory struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewPatientDirectory(uowFactory unitofwork.RepositoryFactory) router.PatientDirectory {
	return &patientDirectory{uowFactory: uowFactory}
}

func (d *patientDirectory) FindByName(ctx context.Context, name string) ([]*store.PatientRecord, error) {
	uow := d.uowFactory.NewUnitOfWork(ctx)
	patients, err := uow.PatientRepository().FindAll(ctx,
		specification.NameContains{Name: strings.TrimSpace(name)},
	)
	if err != nil {
		return nil, err
	}

	records := make([]*store.PatientRecord, len(patients))
	for i, p := range patients {
		records[i] = toPatientRecord(p)
	}
	return records, nil
}

func (d *patientDirectory) GetByID(ctx context.Context, id string) (*store.PatientRecord, error) {
	patientID, err := uuid.Parse(id)
	if err != nil {
		return nil, nil
	}

	uow := d.uowFactory.NewUnitOfWork(ctx)
	patient, err := uow.PatientRepository().FindOne(ctx, specification.ByID{ID: patientID})
	if err != nil {
		return nil, err
	}
	if patient == nil {
		return nil, nil
	}
	return toPatientRecord(patient), nil
}

func toPatientRecord(p *entity.Patient) *store.PatientRecord {
	return &store.PatientRecord{
		ID:                    p.Id.String(),
		Name:                  p.Name,
		DischargeDate:         p.DischargeDate,
		PrimaryDiagnosis:      p.PrimaryDiagnosis,
		Medications:           p.Medications,
		FollowUp:              p.FollowUp,
		WarningSigns:          p.WarningSigns,
		DischargeInstructions: p.DischargeInstructions,
		Notes:                 p.Notes,
	}
}
