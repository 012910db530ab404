package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gopkg.in/yaml.v3"

	"github.com/pkgr6286/aegis-sub002/internal/model"
	"github.com/pkgr6286/aegis-sub002/internal/screening"
)

// programFile is the YAML shape a program definition file uses. Rule
// operands are plain YAML scalars converted into typed answer values.
type programFile struct {
	Name        string               `yaml:"name"`
	DrugName    string               `yaml:"drugName"`
	Description string               `yaml:"description"`
	TenantID    string               `yaml:"tenantId"`
	Questions   []screening.Question `yaml:"questions"`
	Rules       []ruleFile           `yaml:"rules"`
}

type ruleFile struct {
	QuestionID       string      `yaml:"questionId"`
	Operator         string      `yaml:"operator"`
	Value            interface{} `yaml:"value"`
	Action           string      `yaml:"action"`
	TargetQuestionID string      `yaml:"targetQuestionId"`
}

func main() {
	mongoURI := os.Getenv("MONGO_URI")
	if mongoURI == "" {
		mongoURI = "mongodb://localhost:27017"
	}
	database := os.Getenv("MONGO_DATABASE")
	if database == "" {
		database = "aegis"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(mongoURI))
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer client.Disconnect(ctx)

	var program *model.Program
	if len(os.Args) > 1 {
		program, err = loadProgramFile(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to load program file: %v", err)
		}
	} else {
		program = demoProgram()
	}

	if err := program.Catalog.Validate(); err != nil {
		log.Fatalf("Catalog rejected: %v", err)
	}

	program.ID = primitive.NewObjectID().Hex()
	program.Status = model.ProgramPublished
	program.Catalog.Version = 1
	program.CreatedAt = time.Now()
	program.UpdatedAt = time.Now()

	coll := client.Database(database).Collection("programs")
	if _, err := coll.InsertOne(ctx, program); err != nil {
		log.Fatalf("Failed to insert program: %v", err)
	}

	fmt.Printf("Successfully created program '%s' (%s) with %d questions\n",
		program.Name, program.ID, len(program.Catalog.Questions))
}

func loadProgramFile(path string) (*model.Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var pf programFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, err
	}

	rules := make([]screening.Rule, 0, len(pf.Rules))
	for _, r := range pf.Rules {
		rules = append(rules, screening.Rule{
			QuestionID:       r.QuestionID,
			Operator:         screening.Operator(r.Operator),
			Value:            scalarValue(r.Value),
			Action:           screening.RuleAction(r.Action),
			TargetQuestionID: r.TargetQuestionID,
		})
	}

	tenantID := pf.TenantID
	if tenantID == "" {
		tenantID = "tenant_default"
	}

	return &model.Program{
		TenantID:    tenantID,
		Name:        pf.Name,
		DrugName:    pf.DrugName,
		Description: pf.Description,
		Catalog: screening.Catalog{
			Questions: pf.Questions,
			Rules:     rules,
		},
	}, nil
}

func scalarValue(v interface{}) screening.Value {
	switch t := v.(type) {
	case bool:
		return screening.BoolValue(t)
	case int:
		return screening.NumberValue(float64(t))
	case float64:
		return screening.NumberValue(t)
	case string:
		return screening.StringValue(t)
	default:
		return screening.Value{}
	}
}

func demoProgram() *model.Program {
	fv := func(f float64) *float64 { return &f }

	return &model.Program{
		TenantID:    "tenant_default",
		Name:        "GlucoAssist Savings Program",
		DrugName:    "GlucoAssist",
		Description: "Patient assistance screening for type 2 diabetes therapy.",
		Catalog: screening.Catalog{
			Questions: []screening.Question{
				{
					ID:       "q_age",
					Text:     "What is your age?",
					Type:     screening.QuestionNumeric,
					Required: true,
					Min:      fv(18),
					Max:      fv(120),
					External: &screening.ExternalMapping{Path: "demographics.age"},
				},
				{
					ID:       "q_diagnosed",
					Text:     "Have you been diagnosed with type 2 diabetes?",
					Type:     screening.QuestionBoolean,
					Required: true,
					External: &screening.ExternalMapping{Path: "conditions[].E11"},
				},
				{
					ID:       "q_a1c",
					Text:     "What was your most recent HbA1c result (%)?",
					Type:     screening.QuestionNumeric,
					Required: true,
					Min:      fv(4),
					Max:      fv(15),
					External: &screening.ExternalMapping{Path: "observations.4548-4"},
				},
				{
					ID:       "q_a1c_test",
					Text:     "Have you had an HbA1c test in the last 6 months?",
					Type:     screening.QuestionDiagnosticTest,
					Required: true,
				},
				{
					ID:       "q_insurance",
					Text:     "What type of insurance coverage do you have?",
					Type:     screening.QuestionChoice,
					Required: true,
					Options:  []string{"commercial", "medicare", "medicaid", "uninsured"},
				},
				{
					ID:       "q_income",
					Text:     "What is your annual household income (USD)?",
					Type:     screening.QuestionNumeric,
					Required: true,
					Min:      fv(0),
				},
				{
					ID:   "q_notes",
					Text: "Anything else you would like the program to know?",
					Type: screening.QuestionText,
				},
			},
			Rules: []screening.Rule{
				{
					QuestionID:       "q_diagnosed",
					Operator:         screening.OpEquals,
					Value:            screening.BoolValue(false),
					Action:           screening.ActionSkipTo,
					TargetQuestionID: "q_insurance",
				},
				{
					QuestionID:       "q_insurance",
					Operator:         screening.OpEquals,
					Value:            screening.StringValue("medicare"),
					Action:           screening.ActionHide,
					TargetQuestionID: "q_income",
				},
			},
		},
	}
}
