package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"discharge-assist-be/internal/config"
	"discharge-assist-be/internal/entity"
	"discharge-assist-be/internal/repository/contract"
	"discharge-assist-be/internal/repository/implementation"
	"discharge-assist-be/internal/repository/specification"
	"discharge-assist-be/pkg/database"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

var firstNames = []string{
	"John", "Jane", "Michael", "Emily", "David", "Sarah", "Robert", "Jessica",
	"William", "Ashley", "James", "Mary", "Richard", "Patricia", "Joseph",
	"Linda", "Thomas", "Barbara", "Charles", "Elizabeth", "Daniel", "Jennifer",
	"Matthew", "Maria", "Anthony", "Susan",
}

var lastNames = []string{
	"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller",
	"Davis", "Rodriguez", "Martinez", "Hernandez", "Lopez", "Gonzalez",
	"Wilson", "Anderson", "Thomas", "Taylor", "Moore", "Jackson", "Martin",
	"Lee", "Perez", "Thompson", "White", "Harris",
}

var diagnoses = []string{
	"Acute on chronic kidney disease",
	"End-stage renal disease",
	"Nephrotic syndrome",
	"Acute kidney injury",
	"Hypertensive nephrosclerosis",
	"Diabetic nephropathy",
	"Polycystic kidney disease",
	"Glomerulonephritis",
	"Pyelonephritis",
	"Renal artery stenosis",
}

var medications = []string{
	"Lisinopril 10mg daily",
	"Furosemide 40mg daily",
	"Amlodipine 5mg daily",
	"Metoprolol 25mg BID",
	"Prednisone 10mg daily",
	"Mycophenolate mofetil 500mg BID",
	"Tacrolimus 1mg BID",
	"Sevelamer 800mg TID with meals",
	"Calcitriol 0.25mcg daily",
	"Erythropoietin 4000 units weekly",
}

var warningSigns = []string{
	"Swelling in legs or ankles",
	"Shortness of breath",
	"Decreased urine output",
	"Weight gain > 2kg in 2 days",
	"Fever > 100.4F",
	"Blood in urine",
	"Severe flank pain",
	"Confusion or lethargy",
}

var instructions = []string{
	"Monitor daily weight.",
	"Low sodium diet (2g/day).",
	"Fluid restriction 1.5L/day.",
	"Avoid NSAIDs.",
	"Monitor blood pressure daily.",
	"Follow up with nephrology in 2 weeks.",
	"Take medications as prescribed.",
}

func main() {
	count := flag.Int("count", 30, "number of random patients to generate")
	flag.Parse()

	cfg := config.Load()
	if cfg.Database.Connection == "" {
		log.Fatal("DB_CONNECTION_STRING is required for seeding")
	}

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Fatalf("Unable to connect to GORM DB: %v", err)
	}

	repo := implementation.NewPatientRepository(db)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	ctx := context.Background()

	log.Println("Seeding patient directory...")

	created := 0
	for i := 0; i < *count; i++ {
		patient := randomPatient(rng)
		if err := repo.Create(ctx, patient); err != nil {
			log.Printf("Error creating patient %q: %v", patient.Name, err)
			continue
		}
		log.Printf("Created patient: %s (%s)", patient.Name, patient.PrimaryDiagnosis)
		created++
	}

	// The demo patient backs the documented walkthrough, so it must exist
	// exactly once with a fixed report.
	if err := ensureDemoPatient(ctx, repo); err != nil {
		log.Printf("Error ensuring demo patient: %v", err)
	} else {
		created++
	}

	color.Green("Seeding completed: %d patients written.", created)
}

func randomPatient(rng *rand.Rand) *entity.Patient {
	name := fmt.Sprintf("%s %s", firstNames[rng.Intn(len(firstNames))], lastNames[rng.Intn(len(lastNames))])
	diagnosis := diagnoses[rng.Intn(len(diagnoses))]
	dischargeDate := time.Now().AddDate(0, 0, -(1 + rng.Intn(30))).Format("2006-01-02")

	return &entity.Patient{
		Id:                    uuid.New(),
		Name:                  name,
		DischargeDate:         dischargeDate,
		PrimaryDiagnosis:      diagnosis,
		Medications:           sample(rng, medications, 2+rng.Intn(4)),
		FollowUp:              "2 weeks",
		WarningSigns:          sample(rng, warningSigns, 2+rng.Intn(3)),
		DischargeInstructions: strings.Join(sample(rng, instructions, 3), " "),
		Notes:                 fmt.Sprintf("Patient discharged in stable condition. %s managed.", diagnosis),
	}
}

func ensureDemoPatient(ctx context.Context, repo contract.PatientRepository) error {
	existing, err := repo.FindOne(ctx, specification.NameContains{Name: "John Smith"})
	if err != nil {
		return err
	}
	if existing != nil {
		log.Println("Demo patient 'John Smith' already exists, skipping...")
		return nil
	}

	demo := &entity.Patient{
		Id:                    uuid.New(),
		Name:                  "John Smith",
		DischargeDate:         "2024-01-15",
		PrimaryDiagnosis:      "Acute on chronic kidney disease",
		Medications:           []string{"Lisinopril 10mg", "Furosemide 40mg"},
		FollowUp:              "1 week",
		WarningSigns:          []string{"Swelling", "Shortness of breath"},
		DischargeInstructions: "Monitor weight daily. Low salt diet.",
		Notes:                 "Patient stable.",
	}
	if err := repo.Create(ctx, demo); err != nil {
		return err
	}
	log.Println("Created demo patient: John Smith")
	return nil
}

// sample picks k distinct entries without mutating the pool.
func sample(rng *rand.Rand, pool []string, k int) []string {
	if k > len(pool) {
		k = len(pool)
	}
	picked := rng.Perm(len(pool))[:k]
	out := make([]string, 0, k)
	for _, idx := range picked {
		out = append(out, pool[idx])
	}
	return out
}
