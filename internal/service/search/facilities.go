package search

import "github.com/mediconnect/clinic-api/internal/model"

// facilities is a built-in directory of well-known health facilities,
// served alongside database results so searches return something
// useful before the directory is populated.
var facilities = []model.Facility{
	{Name: "Bir Hospital", City: "Kathmandu", Type: "Government"},
	{Name: "Tribhuvan University Teaching Hospital", City: "Kathmandu", Type: "Government"},
	{Name: "Patan Hospital", City: "Lalitpur", Type: "Government"},
	{Name: "Civil Service Hospital", City: "Kathmandu", Type: "Government"},
	{Name: "Bhaktapur Hospital", City: "Bhaktapur", Type: "Government"},
	{Name: "Kanti Children's Hospital", City: "Kathmandu", Type: "Government"},
	{Name: "Paropakar Maternity and Women's Hospital", City: "Kathmandu", Type: "Government"},
	{Name: "Shahid Gangalal National Heart Centre", City: "Kathmandu", Type: "Government"},
	{Name: "National Kidney Center", City: "Kathmandu", Type: "Community"},
	{Name: "Nepal Eye Hospital", City: "Kathmandu", Type: "Community"},
	{Name: "Tilganga Institute of Ophthalmology", City: "Kathmandu", Type: "Community"},
	{Name: "Grande International Hospital", City: "Kathmandu", Type: "Private"},
	{Name: "Norvic International Hospital", City: "Kathmandu", Type: "Private"},
	{Name: "Mediciti Hospital", City: "Lalitpur", Type: "Private"},
	{Name: "B&B Hospital", City: "Lalitpur", Type: "Private"},
	{Name: "Vayodha Hospital", City: "Kathmandu", Type: "Private"},
	{Name: "Om Hospital and Research Centre", City: "Kathmandu", Type: "Private"},
	{Name: "Star Hospital", City: "Lalitpur", Type: "Private"},
	{Name: "KIST Medical College and Teaching Hospital", City: "Lalitpur", Type: "Private"},
	{Name: "Nepal Medical College Teaching Hospital", City: "Kathmandu", Type: "Private"},
	{Name: "Kathmandu Medical College Teaching Hospital", City: "Kathmandu", Type: "Private"},
	{Name: "Manipal Teaching Hospital", City: "Pokhara", Type: "Private"},
	{Name: "Western Regional Hospital", City: "Pokhara", Type: "Government"},
	{Name: "B.P. Koirala Institute of Health Sciences", City: "Dharan", Type: "Government"},
	{Name: "Koshi Hospital", City: "Biratnagar", Type: "Government"},
	{Name: "Bharatpur Hospital", City: "Bharatpur", Type: "Government"},
	{Name: "Lumbini Provincial Hospital", City: "Butwal", Type: "Government"},
	{Name: "Seti Provincial Hospital", City: "Dhangadhi", Type: "Government"},
	{Name: "Nepalgunj Medical College", City: "Nepalgunj", Type: "Private"},
	{Name: "Dhulikhel Hospital", City: "Dhulikhel", Type: "Community"},
}
