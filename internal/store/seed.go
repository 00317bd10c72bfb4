package store

import (
	"time"

	"jobverse/internal/model"
)

// Sample employers used by the seed corpus.
var (
	techCorp = model.Employer{
		ID: "1", Name: "Tech Corp", Logo: "https://logo.clearbit.com/google.com",
		Industry: "Technology", Location: "San Francisco, CA", Size: "1000+", FoundedYear: 2000, OwnerID: "3",
	}
	financePro = model.Employer{
		ID: "2", Name: "Finance Pro", Logo: "https://logo.clearbit.com/jpmorgan.com",
		Industry: "Finance", Location: "New York, NY", Size: "500-1000", FoundedYear: 1995, OwnerID: "4",
	}
	healthPlus = model.Employer{
		ID: "3", Name: "Health Plus", Logo: "https://logo.clearbit.com/unitedhealth.com",
		Industry: "Healthcare", Location: "Boston, MA", Size: "201-500", FoundedYear: 2010, OwnerID: "5",
	}
	brightMedia = model.Employer{
		ID: "4", Name: "Bright Media", Industry: "Marketing", Location: "Chicago, IL", Size: "51-200", FoundedYear: 2014, OwnerID: "6",
	}
	eduNext = model.Employer{
		ID: "5", Name: "EduNext", Industry: "Education", Location: "Seattle, WA", Size: "51-200", FoundedYear: 2016, OwnerID: "7",
	}
	buildRight = model.Employer{
		ID: "6", Name: "BuildRight Engineering", Industry: "Manufacturing", Location: "Detroit, MI", Size: "201-500", FoundedYear: 1988, OwnerID: "8",
	}
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func deadline(posted time.Time) *time.Time {
	d := posted.AddDate(0, 0, 30)
	return &d
}

func usd(lo, hi int) *model.Salary {
	return &model.Salary{Min: lo, Max: hi, Currency: "USD"}
}

type seedJob struct {
	id, title    string
	employer     model.Employer
	location     string
	jobType      model.JobType
	category     string
	description  string
	skills       []string
	salary       *model.Salary
	level        model.ExperienceLevel
	posted       time.Time
	applications int
	views        int
}

// seedJobs lists the sample postings in insertion order. Posted dates are
// fixed so date-window queries are reproducible.
var seedJobs = []seedJob{
	{"1", "Frontend Developer", techCorp, "San Francisco, CA", model.JobTypeFullTime, "Development",
		"We're looking for a frontend developer with React experience to join our team.",
		[]string{"React", "TypeScript", "CSS", "HTML"}, usd(90000, 120000), model.ExperienceMid, day(2023, 4, 1), 1, 145},
	{"2", "Backend Engineer", techCorp, "San Francisco, CA", model.JobTypeFullTime, "Development",
		"Backend engineer with Node.js and database experience needed for our growing team.",
		[]string{"Node.js", "MongoDB", "Express", "SQL"}, usd(100000, 130000), model.ExperienceSenior, day(2023, 3, 25), 0, 98},
	{"3", "Financial Analyst", financePro, "New York, NY", model.JobTypeFullTime, "Finance",
		"Seeking a financial analyst to join our team and help with financial modeling and reporting.",
		[]string{"Financial Modeling", "Excel", "Data Analysis", "Reporting"}, usd(75000, 95000), model.ExperienceMid, day(2023, 4, 5), 1, 67},
	{"4", "UX/UI Designer", techCorp, "Remote", model.JobTypeFullTime, "Design",
		"Creative UX/UI designer needed to craft beautiful and functional interfaces.",
		[]string{"Figma", "UI Design", "UX Research", "Prototyping"}, usd(85000, 110000), model.ExperienceMid, day(2023, 4, 10), 0, 112},
	{"5", "Healthcare Administrator", healthPlus, "Boston, MA", model.JobTypeFullTime, "Healthcare",
		"Healthcare administrator needed to oversee daily operations and improve efficiency.",
		[]string{"Healthcare Management", "Regulatory Compliance", "Staff Management", "Budget Planning"}, usd(70000, 90000), model.ExperienceMid, day(2023, 4, 8), 0, 43},
	{"6", "DevOps Engineer", techCorp, "San Francisco, CA", model.JobTypeFullTime, "Development",
		"DevOps engineer needed to streamline our development and deployment processes.",
		[]string{"AWS", "Docker", "Kubernetes", "CI/CD", "Terraform"}, usd(110000, 140000), model.ExperienceSenior, day(2023, 4, 3), 0, 78},
	{"7", "Full Stack Developer", techCorp, "Austin, TX", model.JobTypeFullTime, "Development",
		"Full stack developer to build product features end to end, from React front ends to Node.js services.",
		[]string{"React", "Node.js", "TypeScript", "SQL"}, usd(95000, 135000), model.ExperienceMid, day(2023, 4, 12), 2, 131},
	{"8", "Software Engineer Intern", techCorp, "San Francisco, CA", model.JobTypeInternship, "Development",
		"Summer internship for students who want to ship production code alongside our platform team.",
		[]string{"Python", "Java", "Git"}, nil, model.ExperienceEntry, day(2023, 4, 14), 5, 210},
	{"9", "Marketing Coordinator", brightMedia, "Chicago, IL", model.JobTypePartTime, "Marketing",
		"Part-time coordinator to plan campaigns and manage our social media calendar.",
		[]string{"Marketing", "Social Media", "Copywriting"}, usd(40000, 55000), model.ExperienceEntry, day(2023, 4, 2), 0, 36},
	{"10", "Sales Representative", financePro, "New York, NY", model.JobTypeFullTime, "Sales",
		"Sales representative to grow relationships with small and mid-sized business clients.",
		[]string{"Sales", "Communication", "CRM"}, usd(50000, 70000), model.ExperienceEntry, day(2023, 3, 28), 0, 29},
	{"11", "Data Scientist", financePro, "Remote", model.JobTypeRemote, "Development",
		"Data scientist to build risk models and analytics pipelines on large financial datasets.",
		[]string{"Python", "SQL", "Machine Learning"}, usd(120000, 150000), model.ExperienceSenior, day(2023, 4, 11), 1, 154},
	{"12", "Registered Nurse", healthPlus, "Boston, MA", model.JobTypeFullTime, "Healthcare",
		"Registered nurse for our outpatient clinic, providing direct patient care and education.",
		[]string{"Patient Care", "BLS", "Communication"}, usd(65000, 85000), model.ExperienceMid, day(2023, 4, 9), 0, 51},
	{"13", "Content Writer", brightMedia, "Remote", model.JobTypeContract, "Marketing",
		"Contract writer producing long-form articles and landing page copy for B2B clients.",
		[]string{"Copywriting", "SEO"}, nil, model.ExperienceMid, day(2023, 4, 6), 0, 22},
	{"14", "Customer Support Specialist", techCorp, "Remote", model.JobTypePartTime, "Customer Service",
		"Help customers get the most out of our products through chat and email support.",
		[]string{"Customer Service", "Communication", "Zendesk"}, usd(35000, 45000), model.ExperienceEntry, day(2023, 4, 7), 0, 40},
	{"15", "Mechanical Engineer", buildRight, "Detroit, MI", model.JobTypeFullTime, "Engineering",
		"Mechanical engineer to design and test components for industrial equipment.",
		[]string{"CAD", "SolidWorks", "Prototyping"}, usd(80000, 105000), model.ExperienceMid, day(2023, 3, 30), 0, 33},
	{"16", "Math Teacher", eduNext, "Seattle, WA", model.JobTypeFullTime, "Education",
		"Math teacher for our blended-learning middle school program.",
		[]string{"Teaching", "Curriculum Design"}, usd(50000, 65000), model.ExperienceMid, day(2023, 3, 27), 0, 18},
	{"17", "Office Administrator", buildRight, "Detroit, MI", model.JobTypePartTime, "Administrative",
		"Office administrator to handle scheduling, supplies and front desk duties.",
		[]string{"Scheduling", "Microsoft Office", "Communication"}, usd(38000, 48000), model.ExperienceEntry, day(2023, 4, 4), 0, 15},
	{"18", "Product Designer", brightMedia, "New York, NY", model.JobTypeContract, "Design",
		"Six-month contract designing a new client portal from research to high fidelity prototypes.",
		[]string{"Figma", "Prototyping", "UX Research"}, usd(90000, 115000), model.ExperienceSenior, day(2023, 4, 13), 0, 64},
	{"19", "Mobile Developer", techCorp, "Remote", model.JobTypeRemote, "Development",
		"Mobile developer to build our cross-platform app with React Native.",
		[]string{"React Native", "TypeScript", "iOS", "Android"}, usd(100000, 125000), model.ExperienceMid, day(2023, 4, 10), 0, 88},
	{"20", "Engineering Manager", buildRight, "Detroit, MI", model.JobTypeFullTime, "Engineering",
		"Engineering manager leading a team of mechanical and electrical engineers.",
		[]string{"Leadership", "Project Management"}, usd(140000, 180000), model.ExperienceExecutive, day(2023, 3, 26), 0, 47},
	{"21", "Instructional Designer", eduNext, "Remote", model.JobTypeRemote, "Education",
		"Instructional designer to turn subject matter into engaging online courses.",
		[]string{"Curriculum Design", "Articulate"}, nil, model.ExperienceMid, day(2023, 4, 1), 0, 26},
	{"22", "Account Executive", brightMedia, "Chicago, IL", model.JobTypeFullTime, "Sales",
		"Account executive to close new agency deals and manage a book of clients.",
		[]string{"Sales", "Negotiation", "CRM"}, usd(60000, 90000), model.ExperienceMid, day(2023, 4, 10), 0, 31},
	{"23", "QA Engineer", techCorp, "Austin, TX", model.JobTypeContract, "Development",
		"QA engineer to build automated test suites for our web applications.",
		[]string{"Selenium", "JavaScript", "Testing"}, usd(70000, 95000), model.ExperienceMid, day(2023, 4, 5), 0, 39},
}

// SeedJobs returns the deterministic sample corpus of 23 open postings.
func SeedJobs() []model.JobRecord {
	out := make([]model.JobRecord, 0, len(seedJobs))
	for _, s := range seedJobs {
		out = append(out, model.JobRecord{
			ID:               s.id,
			Title:            s.title,
			Employer:         s.employer,
			Location:         s.location,
			Type:             s.jobType,
			Category:         s.category,
			Description:      s.description,
			Requirements:     []string{},
			Responsibilities: []string{},
			Salary:           s.salary,
			ExperienceLevel:  s.level,
			PostedAt:         s.posted,
			Deadline:         deadline(s.posted),
			Status:           model.JobStatusOpen,
			Skills:           s.skills,
			Applications:     s.applications,
			Views:            s.views,
		}.Clone())
	}
	return out
}
