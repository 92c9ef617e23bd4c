package domain

// ChartAccount is a template account of the national standard chart.
type ChartAccount struct {
	Number       string
	Label        string
	Class        AccountClass
	ParentNumber string
	IsSummary    bool
	IsAuxiliary  bool
}

// StandardChart lists the SCF accounts created by chart seeding, parents before children.
var StandardChart = []ChartAccount{
	// Class 1
	{Number: "101", Label: "Capital social", Class: ClassEquity},
	{Number: "104", Label: "Ecarts d'évaluation", Class: ClassEquity},
	{Number: "105", Label: "Ecarts de réévaluation", Class: ClassEquity},
	{Number: "106", Label: "Réserves", Class: ClassEquity, IsSummary: true},
	{Number: "1061", Label: "Réserve légale", Class: ClassEquity, ParentNumber: "106"},
	{Number: "1062", Label: "Réserves statutaires", Class: ClassEquity, ParentNumber: "106"},
	{Number: "110", Label: "Report à nouveau (solde créditeur)", Class: ClassEquity},
	{Number: "120", Label: "Résultat de l'exercice (bénéfice)", Class: ClassEquity},
	{Number: "129", Label: "Résultat de l'exercice (perte)", Class: ClassEquity},
	{Number: "164", Label: "Emprunts auprès des établissements de crédit", Class: ClassEquity},

	// Class 2
	{Number: "204", Label: "Logiciels informatiques et assimilés", Class: ClassFixedAssets},
	{Number: "211", Label: "Terrains", Class: ClassFixedAssets},
	{Number: "213", Label: "Constructions", Class: ClassFixedAssets},
	{Number: "215", Label: "Installations techniques", Class: ClassFixedAssets},
	{Number: "218", Label: "Autres immobilisations corporelles", Class: ClassFixedAssets},
	{Number: "281", Label: "Amortissement des immobilisations corporelles", Class: ClassFixedAssets},

	// Class 3
	{Number: "30", Label: "Stocks de marchandises", Class: ClassInventory},
	{Number: "31", Label: "Matières premières et fournitures", Class: ClassInventory},
	{Number: "32", Label: "Autres approvisionnements", Class: ClassInventory},
	{Number: "35", Label: "Stocks de produits", Class: ClassInventory},

	// Class 4
	{Number: "401", Label: "Fournisseurs de stocks et services", Class: ClassThirdParty, IsAuxiliary: true},
	{Number: "404", Label: "Fournisseurs d'immobilisations", Class: ClassThirdParty, IsAuxiliary: true},
	{Number: "411", Label: "Clients", Class: ClassThirdParty, IsAuxiliary: true},
	{Number: "416", Label: "Clients douteux ou litigieux", Class: ClassThirdParty, IsAuxiliary: true},
	{Number: "421", Label: "Personnel - Rémunérations dues", Class: ClassThirdParty},
	{Number: "431", Label: "Sécurité sociale", Class: ClassThirdParty},
	{Number: "444", Label: "Etat - Impôts sur les résultats", Class: ClassThirdParty},
	{Number: "445", Label: "Etat - Taxes sur le chiffre d'affaires", Class: ClassThirdParty, IsSummary: true},
	{Number: "4456", Label: "TVA déductible", Class: ClassThirdParty, ParentNumber: "445"},
	{Number: "4457", Label: "TVA collectée", Class: ClassThirdParty, ParentNumber: "445"},

	// Class 5
	{Number: "512", Label: "Banques Comptes Courants", Class: ClassFinancial},
	{Number: "531", Label: "Caisse siège social", Class: ClassFinancial},

	// Class 6
	{Number: "600", Label: "Achats de marchandises vendues", Class: ClassExpenses},
	{Number: "601", Label: "Matières premières consommées", Class: ClassExpenses},
	{Number: "602", Label: "Autres approvisionnements consommés", Class: ClassExpenses},
	{Number: "613", Label: "Locations", Class: ClassExpenses},
	{Number: "615", Label: "Entretien et réparations", Class: ClassExpenses},
	{Number: "616", Label: "Primes d'assurances", Class: ClassExpenses},
	{Number: "624", Label: "Transports de biens et personnel", Class: ClassExpenses},
	{Number: "625", Label: "Déplacements, missions et réceptions", Class: ClassExpenses},
	{Number: "626", Label: "Frais postaux et de télécommunications", Class: ClassExpenses},
	{Number: "631", Label: "Rémunérations du personnel", Class: ClassExpenses},
	{Number: "642", Label: "Impôts et taxes non récupérables sur CA", Class: ClassExpenses},
	{Number: "661", Label: "Charges d'intérêts", Class: ClassExpenses},
	{Number: "681", Label: "Dotations aux amortissements", Class: ClassExpenses},

	// Class 7
	{Number: "700", Label: "Ventes de marchandises", Class: ClassRevenue},
	{Number: "701", Label: "Ventes de produits finis", Class: ClassRevenue},
	{Number: "704", Label: "Vente de travaux", Class: ClassRevenue},
	{Number: "706", Label: "Autres prestations de services", Class: ClassRevenue},
}
