package database

import (
	"context"
	"database/sql"
	"fmt"
	"log"
)

// schema lists the CREATE TABLE statements in dependency order.  Every
// statement is idempotent so Migrate can run on each start.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS Temples (
		TempleID INT AUTO_INCREMENT PRIMARY KEY,
		TempleName VARCHAR(100) NOT NULL,
		Location VARCHAR(100) NOT NULL,
		MaxDailyCapacity INT NOT NULL,
		FoundingYear INT,
		Description TEXT,
		OpeningTime TIME NOT NULL,
		ClosingTime TIME NOT NULL,
		ContactNumber VARCHAR(15),
		EmailAddress VARCHAR(100),
		WebsiteURL VARCHAR(200),
		IsActive BOOLEAN DEFAULT TRUE
	)`,
	`CREATE TABLE IF NOT EXISTS Visitors (
		VisitorID INT AUTO_INCREMENT PRIMARY KEY,
		FirstName VARCHAR(50) NOT NULL,
		LastName VARCHAR(50) NOT NULL,
		MobileNumber VARCHAR(15) NOT NULL,
		EmailAddress VARCHAR(100),
		RegistrationDate DATETIME DEFAULT CURRENT_TIMESTAMP,
		Address TEXT,
		City VARCHAR(50),
		State VARCHAR(50),
		PINCode VARCHAR(10),
		LastVisit DATE,
		INDEX idx_visitors_mobile (MobileNumber)
	)`,
	`CREATE TABLE IF NOT EXISTS DarshanTypes (
		DarshanTypeID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		DarshanName VARCHAR(100) NOT NULL,
		Description TEXT,
		Duration INT NOT NULL,
		MaxCapacity INT NOT NULL,
		StandardPrice DECIMAL(10,2) NOT NULL,
		IsSpecial BOOLEAN DEFAULT FALSE,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID)
	)`,
	`CREATE TABLE IF NOT EXISTS Festivals (
		FestivalID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		FestivalName VARCHAR(100) NOT NULL,
		Description TEXT,
		StartDate DATE NOT NULL,
		EndDate DATE NOT NULL,
		SpecialDarshanAvailable BOOLEAN DEFAULT FALSE,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID)
	)`,
	`CREATE TABLE IF NOT EXISTS DarshanSchedules (
		ScheduleID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		DarshanTypeID INT,
		FestivalID INT NULL,
		ScheduleDate DATE NOT NULL,
		StartTime TIME NOT NULL,
		EndTime TIME NOT NULL,
		CurrentCapacity INT NOT NULL,
		RemainingSlots INT NOT NULL,
		IsCancelled BOOLEAN DEFAULT FALSE,
		CONSTRAINT chk_remaining_slots CHECK (RemainingSlots >= 0 AND RemainingSlots <= CurrentCapacity),
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID),
		FOREIGN KEY (DarshanTypeID) REFERENCES DarshanTypes(DarshanTypeID),
		FOREIGN KEY (FestivalID) REFERENCES Festivals(FestivalID)
	)`,
	`CREATE TABLE IF NOT EXISTS DarshanBookings (
		BookingID INT AUTO_INCREMENT PRIMARY KEY,
		ScheduleID INT,
		VisitorID INT,
		BookingDateTime DATETIME DEFAULT CURRENT_TIMESTAMP,
		NumberOfPeople INT NOT NULL,
		TotalAmount DECIMAL(10,2) NOT NULL,
		PaymentStatus VARCHAR(20) NOT NULL,
		PaymentReference VARCHAR(50),
		QRCode LONGTEXT,
		BookingStatus VARCHAR(20) DEFAULT 'Confirmed',
		SpecialRequirements TEXT,
		FOREIGN KEY (ScheduleID) REFERENCES DarshanSchedules(ScheduleID),
		FOREIGN KEY (VisitorID) REFERENCES Visitors(VisitorID)
	)`,
	`CREATE TABLE IF NOT EXISTS DonationTypes (
		DonationTypeID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		TypeName VARCHAR(100) NOT NULL,
		Description TEXT,
		MinimumAmount DECIMAL(10,2) DEFAULT 0,
		IsActive BOOLEAN DEFAULT TRUE,
		DisplayOrder INT,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID)
	)`,
	`CREATE TABLE IF NOT EXISTS Donations (
		DonationID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		DonationTypeID INT,
		VisitorID INT NULL,
		DonationDate DATETIME DEFAULT CURRENT_TIMESTAMP,
		Amount DECIMAL(12,2) NOT NULL,
		PaymentMode VARCHAR(50) NOT NULL,
		TransactionReference VARCHAR(100),
		ReceiptNumber VARCHAR(50),
		IsAnonymous BOOLEAN DEFAULT FALSE,
		DonorName VARCHAR(100) NULL,
		DonorPhone VARCHAR(15) NULL,
		DonorEmail VARCHAR(100) NULL,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID),
		FOREIGN KEY (DonationTypeID) REFERENCES DonationTypes(DonationTypeID),
		FOREIGN KEY (VisitorID) REFERENCES Visitors(VisitorID)
	)`,
	`CREATE TABLE IF NOT EXISTS PujaTypes (
		PujaTypeID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		PujaName VARCHAR(100) NOT NULL,
		Description TEXT,
		Duration INT NOT NULL,
		Price DECIMAL(10,2) NOT NULL,
		IsActive BOOLEAN DEFAULT TRUE,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID)
	)`,
	`CREATE TABLE IF NOT EXISTS VirtualPujas (
		PujaID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		VisitorID INT,
		PujaTypeID INT,
		PujaDate DATE NOT NULL,
		PujaTime TIME NOT NULL,
		TotalAmount DECIMAL(10,2) NOT NULL,
		PujaStatus VARCHAR(20) DEFAULT 'Scheduled',
		ReceiptNumber VARCHAR(50),
		DevoteeMessage TEXT NULL,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID),
		FOREIGN KEY (VisitorID) REFERENCES Visitors(VisitorID),
		FOREIGN KEY (PujaTypeID) REFERENCES PujaTypes(PujaTypeID)
	)`,
	`CREATE TABLE IF NOT EXISTS PrasadamTypes (
		PrasadamTypeID INT AUTO_INCREMENT PRIMARY KEY,
		TempleID INT,
		Name VARCHAR(100) NOT NULL,
		Description TEXT,
		Price DECIMAL(10,2) NOT NULL,
		IsActive BOOLEAN DEFAULT TRUE,
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID)
	)`,
	`CREATE TABLE IF NOT EXISTS PrasadamOrders (
		OrderID INT AUTO_INCREMENT PRIMARY KEY,
		VisitorID INT,
		TempleID INT,
		PrasadamTypeID INT,
		OrderDate DATETIME DEFAULT CURRENT_TIMESTAMP,
		Quantity INT NOT NULL,
		TotalAmount DECIMAL(10,2) NOT NULL,
		ShippingAddress TEXT NOT NULL,
		TrackingNumber VARCHAR(50) NULL,
		OrderStatus VARCHAR(20) DEFAULT 'Processing',
		EstimatedDelivery DATE NULL,
		FOREIGN KEY (VisitorID) REFERENCES Visitors(VisitorID),
		FOREIGN KEY (TempleID) REFERENCES Temples(TempleID),
		FOREIGN KEY (PrasadamTypeID) REFERENCES PrasadamTypes(PrasadamTypeID)
	)`,
	`CREATE TABLE IF NOT EXISTS Admins (
		AdminID INT AUTO_INCREMENT PRIMARY KEY,
		Username VARCHAR(64) NOT NULL UNIQUE,
		PasswordHash VARCHAR(255) NOT NULL,
		CreatedAt DATETIME DEFAULT CURRENT_TIMESTAMP
	)`,
}

// Migrate creates any missing table.
func Migrate(ctx context.Context, db *sql.DB) error {
	for i, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate statement %d: %w", i+1, err)
		}
	}
	log.Printf("database: schema ready (%d tables)", len(schema))
	return nil
}
